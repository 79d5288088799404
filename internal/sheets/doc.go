// Package sheets is the remote store adapter for the equipment spreadsheet.
//
// # Overview
//
// The backend is asymmetric. Reads go to the spreadsheet values API and come
// back as a grid of cells; writes go to a separate script endpoint as JSON
// actions. This package hides that behind the Store interface so the sync
// coordinator only sees equipment items and checkout records.
//
// The Client owns no state beyond its configuration. It is constructed once
// in the composition root and injected where it is needed.
//
// # Read Path
//
//	GET {api_base}/v4/spreadsheets/{sheet_id}/values/{range}?key={api_key}
//
// Row 0 of every grid is a header and is discarded. Columns are fixed:
//
//	Equipment!A:E   id, name, category, serial number, available
//	Checkouts!A:M   id, student name, student id, email, major, sponsor,
//	                checkout date, return date, equipment id, equipment name,
//	                serial number, returned, comments
//
// The sheet is edited by hand, so parsing is forgiving. Missing trailing
// cells read as empty. An id cell without a usable positive integer takes the
// row's 1-based position among data rows. Availability is true only for a
// boolean true, "TRUE" or "Available"; returned is true only for a boolean
// true, "TRUE" or "Yes".
//
// Any transport, status or decode failure, and an empty grid, returns the
// built-in fallback data instead of an error. Options.OnFallback lets the
// owner turn that into an advisory status line.
//
// # Write Path
//
//	POST {script_url}
//	{"action":"addCheckout","checkout":{...}}
//	{"action":"markReturned","checkoutId":7}
//	{"action":"updateEquipment","equipmentId":3,"available":true}
//
// The deployed script endpoint cannot be relied on to return a readable
// response, so every write reports success unless the request could not be
// built. A readable {"error": ...} body or an HTTP error is logged only. When
// no script URL is configured the write is skipped and still reported as
// successful. Posts are paced by a token bucket and tagged with an
// X-Request-Id header.
package sheets
