package sheetserver

import (
	"context"

	"github.com/TCU-DCDA/cdex-inventory-app/internal/inventory"
)

// Storage holds the two tables in row order.
type Storage interface {
	Equipment(ctx context.Context) ([]inventory.EquipmentItem, error)
	Checkouts(ctx context.Context) ([]inventory.CheckoutRecord, error)

	// AppendCheckout stores rec under the id of the last row plus one and
	// marks its equipment unavailable. It returns the assigned id.
	AppendCheckout(ctx context.Context, rec inventory.CheckoutRecord) (int, error)

	// MarkReturned flags the checkout returned and its equipment available.
	// An unknown id reports false.
	MarkReturned(ctx context.Context, checkoutID int) (bool, error)

	// SetAvailability sets the flag on the first item with the id. An unknown
	// id reports false.
	SetAvailability(ctx context.Context, equipmentID int, available bool) (bool, error)
}
