// Package ingest turns an uploaded CSV sales file into a validated dataset and
// its aggregates.
//
// The pipeline is linear: format gate, parse, schema validation,
// normalization, aggregation. Every failure is returned as a *ValidationError
// carrying the user-facing message; nothing panics past Pipeline.Ingest.
package ingest
