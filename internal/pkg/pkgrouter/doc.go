// Package pkgrouter is the HTTP edge: an httprouter-backed router whose
// handlers return (payload, error) and get a JSON envelope back.
//
// Every route runs behind panic recovery, correlation IDs and request logging.
// Uploaded files never reach the logs and response logs carry the envelope
// summary rather than the dataset.
package pkgrouter
