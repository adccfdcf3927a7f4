package ingest

import (
	"errors"
	"strings"

	"github.com/catherineyu2014/CSV-Sales-Dashboard/internal/sales/entity"
)

const (
	MsgNoFileSelected  = "Please select a file to upload."
	MsgInvalidFileType = "Invalid file type. Please upload a CSV file."
	MsgReadError       = "Error reading the CSV file. Please try again."
	msgSchemaPrefix    = "CSV is missing required columns: "
)

// Sentinels for errors.Is. They match any ValidationError of the same kind.
var (
	ErrNoFileSelected  = &ValidationError{Kind: entity.ErrorKindNoFileSelected, Message: MsgNoFileSelected}
	ErrInvalidFileType = &ValidationError{Kind: entity.ErrorKindInvalidFileType, Message: MsgInvalidFileType}
	ErrSchemaMismatch  = &ValidationError{Kind: entity.ErrorKindSchemaMismatch}
	ErrRead            = &ValidationError{Kind: entity.ErrorKindReadError, Message: MsgReadError}
)

// ValidationError is the tagged failure of an ingestion.
type ValidationError struct {
	Kind    entity.ErrorKind
	Message string
	// Missing lists absent required columns, in required order.
	Missing []string

	cause error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// ResetsOutput reports whether the failure clears previously shown results.
// Schema and read failures do; a missing or mistyped file leaves them alone.
func (e *ValidationError) ResetsOutput() bool {
	switch e.Kind {
	case entity.ErrorKindSchemaMismatch, entity.ErrorKindReadError:
		return true
	default:
		return false
	}
}

func newNoFileSelected() *ValidationError {
	return &ValidationError{Kind: entity.ErrorKindNoFileSelected, Message: MsgNoFileSelected}
}

func newInvalidFileType() *ValidationError {
	return &ValidationError{Kind: entity.ErrorKindInvalidFileType, Message: MsgInvalidFileType}
}

func newSchemaMismatch(missing []string) *ValidationError {
	return &ValidationError{
		Kind:    entity.ErrorKindSchemaMismatch,
		Message: msgSchemaPrefix + strings.Join(missing, ", "),
		Missing: missing,
	}
}

func newReadError(cause error) *ValidationError {
	return &ValidationError{Kind: entity.ErrorKindReadError, Message: MsgReadError, cause: cause}
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
