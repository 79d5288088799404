// Package state holds the optimistic sync coordinator for CDEx.
//
// # Overview
//
// The Coordinator is the single owner of the in-memory equipment and checkout
// collections. The UI reads copies through Snapshot and changes data only
// through the coordinator's operations. The spreadsheet behind it is slow,
// hand-edited and reached through a write channel that cannot confirm
// anything, so local state is treated as the truth until the next refresh
// replaces it.
//
// # Lifecycle
//
//	Idle ──Initialize──▶ Loading ──▶ Ready
//	                         │
//	                         └─────▶ Errored
//
// Ready and Errored both re-enter Loading on RefreshData. Errored keeps the
// last loaded data, or the built-in data when nothing has loaded yet, so an
// error never empties the screen.
//
// # Mutations
//
// Every mutation applies locally under one lock acquisition and then, when
// the connectivity provider says online and the store is configured, queues
// the matching remote write:
//
//	AddCheckout     append record (id = max + 1), item unavailable   addCheckout
//	MarkAsReturned  record returned, item available                  markReturned
//	SetEquipment…   item flag set directly                           updateEquipment
//
// Writes run in the background, chained so they reach the backend in local
// order. Their outcome is only logged. PendingWrites in the snapshot counts
// writes that have not settled and Wait blocks until all of them have.
//
// # Refresh Semantics
//
// RefreshData replaces both collections with whatever the store returns.
// A checkout made locally whose write has not landed will appear to vanish
// until the backend catches up. That staleness window is accepted.
//
// # Status
//
//   - Error: the last load's failure (offline, cancelled), empty otherwise
//   - Notice: advisory text when a table was served from built-in data
//   - ConsecutiveFailures: loads in a row without live data; the poller
//     uses it for backoff
//   - Online / Configured: connectivity and credential badges
package state
