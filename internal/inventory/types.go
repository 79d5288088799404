package inventory

// Equipment categories in display order.
const (
	CategoryVideoPro      = "Video Camera - Professional"
	CategoryVideoStandard = "Video Camera - Standard"
	CategoryDSLR          = "DSLR Camera"
	CategoryMicrophone    = "Yeti Microphone"
	CategoryPCLaptop      = "PC Laptop"
	CategoryMacLaptop     = "Mac Laptop"
)

var categories = []string{
	CategoryVideoPro,
	CategoryVideoStandard,
	CategoryDSLR,
	CategoryMicrophone,
	CategoryPCLaptop,
	CategoryMacLaptop,
}

// Categories returns the known category labels in display order.
func Categories() []string {
	return append([]string(nil), categories...)
}

// EquipmentItem is one row of the equipment table.
type EquipmentItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	SerialNumber string `json:"serialNumber"`
	Available    bool   `json:"available"`
}

// CheckoutRecord is one row of the checkout table. EquipmentName and
// SerialNumber are copied from the item at checkout time and are not kept in
// sync afterwards.
//
// ID is omitted from JSON when zero so the same type doubles as the
// "checkout without id" payload of the addCheckout write.
type CheckoutRecord struct {
	ID             int    `json:"id,omitempty"`
	StudentName    string `json:"studentName" validate:"required" label:"student name"`
	StudentID      string `json:"studentId" validate:"required" label:"student ID"`
	StudentEmail   string `json:"studentEmail" validate:"required,email" label:"student email"`
	StudentMajor   string `json:"studentMajor"`
	FacultySponsor string `json:"facultySponsor"`
	CheckoutDate   string `json:"checkoutDate"`
	ReturnDate     string `json:"returnDate"`
	EquipmentID    int    `json:"equipmentId" validate:"required" label:"equipment"`
	EquipmentName  string `json:"equipmentName"`
	SerialNumber   string `json:"serialNumber"`
	Returned       bool   `json:"returned"`
	Comments       string `json:"comments"`
}

// CloneEquipment returns an independent copy of items.
func CloneEquipment(items []EquipmentItem) []EquipmentItem {
	if items == nil {
		return nil
	}
	dup := make([]EquipmentItem, len(items))
	copy(dup, items)
	return dup
}

// CloneCheckouts returns an independent copy of records.
func CloneCheckouts(records []CheckoutRecord) []CheckoutRecord {
	if records == nil {
		return nil
	}
	dup := make([]CheckoutRecord, len(records))
	copy(dup, records)
	return dup
}
