// Package config loads the CDEx client configuration.
//
// # Overview
//
// The client needs three credentials to talk to the spreadsheet backend: the
// sheet id, a read-only API key for the values API, and the URL of the script
// endpoint that accepts writes. Everything else has a sensible default.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/cdex/config.toml
//  3. If the file doesn't exist, start from Default()
//  4. Empty or whitespace-only fields keep their defaults
//  5. CDEX_SHEET_ID, CDEX_API_KEY and CDEX_SCRIPT_URL override the file
//
// # Placeholders
//
// The sample configuration ships with placeholder sentinels:
//
//	sheet_id   = "YOUR_GOOGLE_SHEET_ID_HERE"
//	api_key    = "YOUR_GOOGLE_API_KEY_HERE"
//	script_url = "YOUR_APPS_SCRIPT_URL_HERE"
//
// A value equal to its placeholder counts as absent. Sheets.IsConfigured is
// true only when both read credentials are real and longer than ten
// characters; it drives the "Connected" / "Local Only" badge and nothing else.
// Sheets.WritesConfigured is false for an empty or placeholder script URL, in
// which case writes are skipped and reported as successful.
//
// # TOML Format
//
//	sheet_id        = "1AbCdEf..."
//	api_key         = "AIza..."
//	script_url      = "https://script.google.com/macros/s/.../exec"
//	api_base        = "https://sheets.googleapis.com"
//	equipment_range = "Equipment!A:E"
//	checkouts_range = "Checkouts!A:M"
//	poll_interval   = "30s"
//	log_file        = "~/.local/share/cdex/cdex.log"
//	probe_addr      = "sheets.googleapis.com:443"
//
// Point api_base and script_url at a running cdex-sheet to work against the
// local backend instead of Google.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// syntax errors and unparseable poll_interval values. A missing file is not an
// error.
package config
