// Package ui implements the CDEx terminal interface with Bubble Tea.
//
// The Model renders three tabs over a state.Coordinator snapshot:
//
//   - Check Out: a form (student, ID, email, major, sponsor, equipment picker,
//     comments) that submits through Coordinator.Checkout
//   - Check In: outstanding checkouts with a search filter; enter returns the
//     selected one through Coordinator.MarkAsReturned
//   - Inventory: equipment grouped by category; a flips availability through
//     Coordinator.SetEquipmentAvailability
//
// A tick re-reads the snapshot so background loads and write settlement show
// up without input. Mutations refresh the snapshot synchronously. The header
// carries the connectivity, credential and pending-write badges. Overlays
// provide key help (?) and diagnostics (D) including the tail of the log.
//
// Theme and active tab persist through package prefs.
package ui
