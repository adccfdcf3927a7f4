// Package pkgerror carries typed application errors to the HTTP edge.
//
// An Error has a user-facing message, a type (validation, business, server)
// and a Code that maps to an HTTP status. Validation errors may also carry
// string details, such as which CSV columns were missing.
package pkgerror
