package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DateLayout is the calendar date format used in both sheet tables.
	DateLayout = "2006-01-02"
	// LoanDays is the checkout period; the return date is derived from it.
	LoanDays = 7
)

var (
	ErrUnknownEquipment     = errors.New("selected equipment does not exist")
	ErrEquipmentUnavailable = errors.New("selected equipment is not available")
	ErrEquipmentCheckedOut  = errors.New("equipment has an open checkout")
)

// CheckoutForm is what a staff member fills in to check equipment out.
type CheckoutForm struct {
	StudentName    string `validate:"required" label:"student name"`
	StudentID      string `validate:"required" label:"student ID"`
	StudentEmail   string `validate:"required,email" label:"student email"`
	StudentMajor   string `validate:"required" label:"major"`
	FacultySponsor string `validate:"required" label:"faculty sponsor"`
	EquipmentID    int    `validate:"required" label:"equipment"`
	Comments       string
}

// ValidationError lists every field problem found in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})
	return v
}

// Normalize trims surrounding whitespace from every text field.
func (f CheckoutForm) Normalize() CheckoutForm {
	f.StudentName = strings.TrimSpace(f.StudentName)
	f.StudentID = strings.TrimSpace(f.StudentID)
	f.StudentEmail = strings.TrimSpace(f.StudentEmail)
	f.StudentMajor = strings.TrimSpace(f.StudentMajor)
	f.FacultySponsor = strings.TrimSpace(f.FacultySponsor)
	f.Comments = strings.TrimSpace(f.Comments)
	return f
}

// Validate checks the form against the current equipment list and returns the
// selected item. It never mutates anything.
func (f CheckoutForm) Validate(equipment []EquipmentItem) (EquipmentItem, error) {
	if err := structErrors(validate.Struct(f.Normalize())); err != nil {
		return EquipmentItem{}, err
	}
	for _, item := range equipment {
		if item.ID != f.EquipmentID {
			continue
		}
		if !item.Available {
			return EquipmentItem{}, fmt.Errorf("%s (%s): %w", item.Name, item.SerialNumber, ErrEquipmentUnavailable)
		}
		return item, nil
	}
	return EquipmentItem{}, fmt.Errorf("equipment %d: %w", f.EquipmentID, ErrUnknownEquipment)
}

// NewCheckout builds the record for a validated form. The id is left zero;
// the coordinator assigns it.
func NewCheckout(f CheckoutForm, item EquipmentItem, now time.Time) CheckoutRecord {
	f = f.Normalize()
	return CheckoutRecord{
		StudentName:    f.StudentName,
		StudentID:      f.StudentID,
		StudentEmail:   f.StudentEmail,
		StudentMajor:   f.StudentMajor,
		FacultySponsor: f.FacultySponsor,
		CheckoutDate:   now.Format(DateLayout),
		ReturnDate:     now.AddDate(0, 0, LoanDays).Format(DateLayout),
		EquipmentID:    item.ID,
		EquipmentName:  item.Name,
		SerialNumber:   item.SerialNumber,
		Comments:       f.Comments,
	}
}

// ValidateRecord checks a checkout payload received over the wire.
func ValidateRecord(rec CheckoutRecord) error {
	return structErrors(validate.Struct(rec))
}

func structErrors(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		switch e.ActualTag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			problems = append(problems, fmt.Sprintf("%s must be a valid email address", e.Field()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return &ValidationError{Problems: problems}
}
