// Package app is the composition root of the CDEx client.
//
// Run wires the pieces together in this order:
//
//	config.Load()          TOML file + CDEX_* environment overrides
//	setupLogging()         slog text handler on the log file
//	prefs.Load()           theme and last tab
//	sheets.NewClient()     read/write adapter, fallbacks reported to the coordinator
//	connectivity.Prober    TCP reachability of the Sheets host (or Static offline)
//	state.New()            optimistic coordinator
//	coord.Initialize()     first load, never fatal
//	StartPoller()          periodic RefreshData with backoff
//	ui.Run()               Bubble Tea program (blocks)
//
// Only configuration, log file and client construction errors are fatal.
// Everything else degrades to built-in data with a visible notice.
//
// # Polling
//
// The poller reloads both tables every PollInterval (30s by default, which
// stays well inside the Sheets API read quota). Each load that ends offline or
// on built-in data doubles the next delay, capped at five minutes; one good
// load resets it.
//
// On exit Run waits briefly for queued sheet writes to go out.
package app
