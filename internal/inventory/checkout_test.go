package inventory

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validForm() CheckoutForm {
	return CheckoutForm{
		StudentName:    "  Ada Lovelace ",
		StudentID:      "AL1815",
		StudentEmail:   "ada.lovelace@tcu.edu",
		StudentMajor:   "Film Production",
		FacultySponsor: "Dr. Babbage",
		EquipmentID:    3,
		Comments:       " capstone ",
	}
}

func sampleEquipment() []EquipmentItem {
	return []EquipmentItem{
		{ID: 1, Name: "Canon EOS R5", Category: CategoryVideoPro, SerialNumber: "CR5001", Available: true},
		{ID: 2, Name: "Canon EOS R5", Category: CategoryVideoPro, SerialNumber: "CR5002", Available: false},
		{ID: 3, Name: "Sony FX3", Category: CategoryVideoPro, SerialNumber: "SF3001", Available: true},
	}
}

func TestCheckoutForm_ValidateReturnsSelectedItem(t *testing.T) {
	item, err := validForm().Validate(sampleEquipment())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if item.ID != 3 || item.SerialNumber != "SF3001" {
		t.Fatalf("Validate item = %#v, want id=3", item)
	}
}

func TestCheckoutForm_ValidateReportsEveryMissingField(t *testing.T) {
	_, err := CheckoutForm{StudentEmail: "not-an-email"}.Validate(sampleEquipment())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate error = %v, want *ValidationError", err)
	}
	msg := verr.Error()
	for _, want := range []string{
		"student name is required",
		"student ID is required",
		"student email must be a valid email address",
		"major is required",
		"faculty sponsor is required",
		"equipment is required",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("Validate error = %q, want it to contain %q", msg, want)
		}
	}
}

func TestCheckoutForm_ValidateWhitespaceOnlyIsMissing(t *testing.T) {
	f := validForm()
	f.StudentName = "   "
	_, err := f.Validate(sampleEquipment())
	if err == nil || !strings.Contains(err.Error(), "student name is required") {
		t.Fatalf("Validate error = %v, want student name is required", err)
	}
}

func TestCheckoutForm_ValidateEquipmentState(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want error
	}{
		{"unavailable", 2, ErrEquipmentUnavailable},
		{"unknown", 99, ErrUnknownEquipment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			f.EquipmentID = tt.id
			_, err := f.Validate(sampleEquipment())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewCheckout_DatesAndSnapshotFields(t *testing.T) {
	now := time.Date(2024, time.June, 28, 15, 4, 5, 0, time.Local)
	item := sampleEquipment()[2]

	rec := NewCheckout(validForm(), item, now)

	if rec.ID != 0 {
		t.Fatalf("ID = %d, want 0", rec.ID)
	}
	if rec.CheckoutDate != "2024-06-28" {
		t.Fatalf("CheckoutDate = %q, want %q", rec.CheckoutDate, "2024-06-28")
	}
	if rec.ReturnDate != "2024-07-05" {
		t.Fatalf("ReturnDate = %q, want %q", rec.ReturnDate, "2024-07-05")
	}
	if rec.StudentName != "Ada Lovelace" || rec.Comments != "capstone" {
		t.Fatalf("text fields not trimmed: %#v", rec)
	}
	if rec.EquipmentID != 3 || rec.EquipmentName != "Sony FX3" || rec.SerialNumber != "SF3001" {
		t.Fatalf("equipment snapshot = %#v, want Sony FX3 SF3001", rec)
	}
	if rec.Returned {
		t.Fatalf("Returned = true, want false")
	}
}

func TestValidateRecord(t *testing.T) {
	rec := CheckoutRecord{StudentName: "A", StudentID: "B", StudentEmail: "a@b.co", EquipmentID: 4}
	if err := ValidateRecord(rec); err != nil {
		t.Fatalf("ValidateRecord returned error: %v", err)
	}

	rec.StudentEmail = "a@"
	rec.EquipmentID = 0
	err := ValidateRecord(rec)
	if err == nil {
		t.Fatalf("ValidateRecord returned nil, want error")
	}
	if !strings.Contains(err.Error(), "student email must be a valid email address") ||
		!strings.Contains(err.Error(), "equipment is required") {
		t.Fatalf("ValidateRecord error = %q", err.Error())
	}
}
