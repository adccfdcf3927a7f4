package entity

type IngestionStatus string

const (
	IngestionStatusDone   IngestionStatus = "DONE"
	IngestionStatusFailed IngestionStatus = "FAILED"
)

type ErrorKind string

const (
	ErrorKindNone            ErrorKind = ""
	ErrorKindNoFileSelected  ErrorKind = "NO_FILE_SELECTED"
	ErrorKindInvalidFileType ErrorKind = "INVALID_FILE_TYPE"
	ErrorKindSchemaMismatch  ErrorKind = "SCHEMA_MISMATCH"
	ErrorKindReadError       ErrorKind = "READ_ERROR"
)
