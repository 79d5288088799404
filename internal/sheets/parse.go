package sheets

import (
	"math"
	"strconv"
	"strings"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

// Equipment table columns.
const (
	colEquipID = iota
	colEquipName
	colEquipCategory
	colEquipSerial
	colEquipAvailable
)

// Checkout table columns.
const (
	colCheckoutID = iota
	colStudentName
	colStudentID
	colStudentEmail
	colStudentMajor
	colFacultySponsor
	colCheckoutDate
	colReturnDate
	colEquipmentID
	colEquipmentName
	colSerialNumber
	colReturned
	colComments
)

// ParseEquipment maps a values grid onto equipment items. Row 0 is the header.
func ParseEquipment(grid [][]any) []inventory.EquipmentItem {
	if len(grid) <= 1 {
		return []inventory.EquipmentItem{}
	}
	items := make([]inventory.EquipmentItem, 0, len(grid)-1)
	for i, row := range grid[1:] {
		items = append(items, inventory.EquipmentItem{
			ID:           rowID(cell(row, colEquipID), i+1),
			Name:         cellString(cell(row, colEquipName)),
			Category:     cellString(cell(row, colEquipCategory)),
			SerialNumber: cellString(cell(row, colEquipSerial)),
			Available:    truthy(cell(row, colEquipAvailable), "Available"),
		})
	}
	return items
}

// ParseCheckouts maps a values grid onto checkout records. Row 0 is the header.
func ParseCheckouts(grid [][]any) []inventory.CheckoutRecord {
	if len(grid) <= 1 {
		return []inventory.CheckoutRecord{}
	}
	records := make([]inventory.CheckoutRecord, 0, len(grid)-1)
	for i, row := range grid[1:] {
		equipmentID, _ := leadingInt(cell(row, colEquipmentID))
		records = append(records, inventory.CheckoutRecord{
			ID:             rowID(cell(row, colCheckoutID), i+1),
			StudentName:    cellString(cell(row, colStudentName)),
			StudentID:      cellString(cell(row, colStudentID)),
			StudentEmail:   cellString(cell(row, colStudentEmail)),
			StudentMajor:   cellString(cell(row, colStudentMajor)),
			FacultySponsor: cellString(cell(row, colFacultySponsor)),
			CheckoutDate:   cellString(cell(row, colCheckoutDate)),
			ReturnDate:     cellString(cell(row, colReturnDate)),
			EquipmentID:    equipmentID,
			EquipmentName:  cellString(cell(row, colEquipmentName)),
			SerialNumber:   cellString(cell(row, colSerialNumber)),
			Returned:       truthy(cell(row, colReturned), "Yes"),
			Comments:       cellString(cell(row, colComments)),
		})
	}
	return records
}

// EquipmentRow renders an item in table column order.
func EquipmentRow(item inventory.EquipmentItem) []any {
	return []any{
		strconv.Itoa(item.ID),
		item.Name,
		item.Category,
		item.SerialNumber,
		boolCell(item.Available),
	}
}

// CheckoutRow renders a record in table column order.
func CheckoutRow(rec inventory.CheckoutRecord) []any {
	return []any{
		strconv.Itoa(rec.ID),
		rec.StudentName,
		rec.StudentID,
		rec.StudentEmail,
		rec.StudentMajor,
		rec.FacultySponsor,
		rec.CheckoutDate,
		rec.ReturnDate,
		strconv.Itoa(rec.EquipmentID),
		rec.EquipmentName,
		rec.SerialNumber,
		boolCell(rec.Returned),
		rec.Comments,
	}
}

// EquipmentHeader and CheckoutHeader are the header rows of each table.
var (
	EquipmentHeader = []any{"ID", "Name", "Category", "Serial Number", "Available"}
	CheckoutHeader  = []any{
		"ID", "Student Name", "Student ID", "Student Email", "Student Major", "Faculty Sponsor",
		"Checkout Date", "Return Date", "Equipment ID", "Equipment Name", "Serial Number",
		"Returned", "Comments",
	}
)

func boolCell(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// cell returns nil for columns past the end of the row; the values API drops
// trailing empty cells.
func cell(row []any, idx int) any {
	if idx < len(row) {
		return row[idx]
	}
	return nil
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "TRUE"
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// truthy is true only for a boolean true, the string "TRUE", or word.
func truthy(v any, word string) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "TRUE" || val == word
	default:
		return false
	}
}

// rowID parses the id cell, falling back to the 1-based data row position
// when the cell has no integer or holds zero. Negative ids are kept.
func rowID(v any, position int) int {
	if id, ok := leadingInt(v); ok && id != 0 {
		return id
	}
	return position
}

// leadingInt reads an integer prefix the way a hand-edited sheet tends to
// need: surrounding whitespace is ignored and trailing junk ("12a", "3.0")
// is dropped.
func leadingInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(val), true
	case string:
		s := strings.TrimSpace(val)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		digits := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == digits {
			return 0, false
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
