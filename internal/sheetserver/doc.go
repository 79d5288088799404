// Package sheetserver emulates the two endpoints the client depends on: the
// spreadsheet values API for reads and the deployed script for writes.
//
// Responses follow the hosted services closely enough that the client cannot
// tell them apart. Write failures come back as HTTP 200 with an error field,
// and markReturned succeeds even for an unknown checkout.
package sheetserver
