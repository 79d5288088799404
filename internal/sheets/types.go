package sheets

import "github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"

// Table names used in logs and fallback notifications.
const (
	TableEquipment = "equipment"
	TableCheckouts = "checkouts"
)

// Write actions understood by the script endpoint.
const (
	ActionAddCheckout     = "addCheckout"
	ActionMarkReturned    = "markReturned"
	ActionUpdateEquipment = "updateEquipment"
)

// ValueRange mirrors the values API response for one range.
type ValueRange struct {
	Range          string  `json:"range"`
	MajorDimension string  `json:"majorDimension"`
	Values         [][]any `json:"values"`
}

// WriteRequest is the JSON body posted to the script endpoint. Only the fields
// belonging to Action are set.
type WriteRequest struct {
	Action      string                    `json:"action"`
	Checkout    *inventory.CheckoutRecord `json:"checkout,omitempty"`
	CheckoutID  int                       `json:"checkoutId,omitempty"`
	EquipmentID int                       `json:"equipmentId,omitempty"`
	Available   *bool                     `json:"available,omitempty"`
}

// WriteResponse is what the script endpoint answers when the response is
// readable at all.
type WriteResponse struct {
	Success bool   `json:"success,omitempty"`
	ID      int    `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}
