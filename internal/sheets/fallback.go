package sheets

import (
	"fmt"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

const macBookCount = 15

var fallbackEquipment = []inventory.EquipmentItem{
	{ID: 1, Name: "Canon EOS R5", Category: inventory.CategoryVideoPro, SerialNumber: "CR5001", Available: true},
	{ID: 2, Name: "Canon EOS R5", Category: inventory.CategoryVideoPro, SerialNumber: "CR5002", Available: false},
	{ID: 3, Name: "Sony FX3", Category: inventory.CategoryVideoPro, SerialNumber: "SF3001", Available: true},
	{ID: 4, Name: "Canon EOS R6", Category: inventory.CategoryVideoStandard, SerialNumber: "CR6001", Available: true},
	{ID: 5, Name: "Canon EOS R6", Category: inventory.CategoryVideoStandard, SerialNumber: "CR6002", Available: true},
	{ID: 6, Name: "Sony A7 III", Category: inventory.CategoryVideoStandard, SerialNumber: "SA7001", Available: false},
	{ID: 7, Name: "Canon 5D Mark IV", Category: inventory.CategoryDSLR, SerialNumber: "5D001", Available: true},
	{ID: 8, Name: "Canon 5D Mark IV", Category: inventory.CategoryDSLR, SerialNumber: "5D002", Available: true},
	{ID: 9, Name: "Nikon D850", Category: inventory.CategoryDSLR, SerialNumber: "ND001", Available: false},
	{ID: 10, Name: "Blue Yeti", Category: inventory.CategoryMicrophone, SerialNumber: "BY001", Available: true},
	{ID: 11, Name: "Blue Yeti", Category: inventory.CategoryMicrophone, SerialNumber: "BY002", Available: true},
	{ID: 12, Name: "Blue Yeti", Category: inventory.CategoryMicrophone, SerialNumber: "BY003", Available: false},
	{ID: 13, Name: "Blue Yeti", Category: inventory.CategoryMicrophone, SerialNumber: "BY004", Available: true},
	{ID: 14, Name: "Dell XPS 15", Category: inventory.CategoryPCLaptop, SerialNumber: "DX001", Available: true},
	{ID: 15, Name: "Dell XPS 15", Category: inventory.CategoryPCLaptop, SerialNumber: "DX002", Available: false},
	{ID: 16, Name: "HP Spectre x360", Category: inventory.CategoryPCLaptop, SerialNumber: "HS001", Available: true},
	{ID: 17, Name: "HP Spectre x360", Category: inventory.CategoryPCLaptop, SerialNumber: "HS002", Available: true},
	{ID: 18, Name: "Lenovo ThinkPad X1", Category: inventory.CategoryPCLaptop, SerialNumber: "LT001", Available: true},
}

var fallbackCheckouts = []inventory.CheckoutRecord{
	{
		ID:             1,
		StudentName:    "Sarah Johnson",
		StudentID:      "SJ12345",
		StudentEmail:   "sarah.johnson@tcu.edu",
		StudentMajor:   "Film Production",
		FacultySponsor: "Dr. Smith",
		CheckoutDate:   "2024-06-10",
		ReturnDate:     "2024-06-17",
		EquipmentID:    2,
		EquipmentName:  "Canon EOS R5",
		SerialNumber:   "CR5002",
		Returned:       false,
		Comments:       "Needed for senior capstone project",
	},
	{
		ID:             2,
		StudentName:    "Mike Chen",
		StudentID:      "MC67890",
		StudentEmail:   "mike.chen@tcu.edu",
		StudentMajor:   "Journalism",
		FacultySponsor: "Prof. Johnson",
		CheckoutDate:   "2024-06-08",
		ReturnDate:     "2024-06-15",
		EquipmentID:    6,
		EquipmentName:  "Sony A7 III",
		SerialNumber:   "SA7001",
		Returned:       false,
		Comments:       "Documentary filming project",
	},
}

// FallbackEquipment returns a fresh copy of the built-in catalog: eighteen
// listed items followed by fifteen generated MacBooks, every fourth of which
// is checked out.
func FallbackEquipment() []inventory.EquipmentItem {
	items := make([]inventory.EquipmentItem, 0, len(fallbackEquipment)+macBookCount)
	items = append(items, fallbackEquipment...)
	next := len(fallbackEquipment) + 1
	for i := 0; i < macBookCount; i++ {
		items = append(items, inventory.EquipmentItem{
			ID:           next + i,
			Name:         `MacBook Pro 16"`,
			Category:     inventory.CategoryMacLaptop,
			SerialNumber: fmt.Sprintf("MBP%03d", i+1),
			Available:    i%4 != 0,
		})
	}
	return items
}

// FallbackCheckouts returns a fresh copy of the built-in checkout records.
func FallbackCheckouts() []inventory.CheckoutRecord {
	return inventory.CloneCheckouts(fallbackCheckouts)
}
