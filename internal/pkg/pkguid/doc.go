// Package pkguid generates identifiers.
//
// Dashboards and events get UUIDv7 strings; each successful ingestion is
// stamped with a Snowflake number so results sort by creation time.
package pkguid
