// Package logtail reads the tail of the CDEx log file for the diagnostics
// overlay.
//
// # Reading
//
// Read returns the last N lines of a file in one pass using a ring buffer of
// N entries, so memory stays O(N) no matter how large the log grows.
// ReadFunc applies a line filter before the ring, which lets the overlay
// show, for example, only the last few sheet writes:
//
//	lines, err := logtail.ReadFunc(path, 20, func(l string) bool {
//		return logtail.HasAttr(l, "action")
//	})
//
// A missing file is not an error: Read returns nil, nil. Other I/O errors are
// wrapped.
//
// # Parsing
//
// The log is written by log/slog's TextHandler. Level pulls the level=
// attribute out of a line so the UI can color it, and HasAttr tests for an
// attribute key without a full logfmt parse.
package logtail
