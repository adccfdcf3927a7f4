package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound is returned by stores when a dashboard does not exist.
var ErrNotFound = errors.New("resource not found")

// Type says who is at fault.
type Type int

const (
	TypeServer     Type = iota // the service failed
	TypeBusiness               // the request conflicts with current state
	TypeValidation             // the request or its upload is unusable
)

var typeNames = map[Type]string{
	TypeServer:     "ERROR_TYPE_SERVER",
	TypeBusiness:   "ERROR_TYPE_BUSINESS",
	TypeValidation: "ERROR_TYPE_VALIDATION",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "ERROR_TYPE_UNKNOWN"
}

// Code is a stable identifier that decides the HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeUnsupportedMediaType
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:             {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:        {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:         {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:             {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:             {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeUnsupportedMediaType: {"ERROR_CODE_UNSUPPORTED_MEDIA_TYPE", http.StatusUnsupportedMediaType},
}

func (c Code) info() codeInfo {
	if info, ok := codes[c]; ok {
		return info
	}
	return codes[CodeInternal]
}

func (c Code) String() string {
	return c.info().name
}

// Error carries a user-facing message, its classification and optional
// details (for example which CSV columns were missing) to the HTTP edge.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	details map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	case e.errType == TypeValidation:
		return "invalid request"
	case e.errType == TypeBusiness:
		return "request not allowed in current state"
	default:
		return "internal error"
	}
}

// String is the verbose form used in logs. Details are sorted by key.
func (e *Error) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "type=%s code=%s msg=%q", e.errType, e.code, e.msg)

	keys := make([]string, 0, len(e.details))
	for k := range e.details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%q", k, e.details[k])
	}

	if e.err != nil {
		fmt.Fprintf(&b, " cause=%q", e.err.Error())
	}
	return b.String()
}

func (e *Error) Msg() string { return e.msg }

func (e *Error) Type() Type { return e.errType }

func (e *Error) Code() Code { return e.code }

// Details returns extra key/value context for clients, or nil.
func (e *Error) Details() map[string]string { return e.details }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) StatusCode() int {
	return e.code.info().status
}

func new(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewValidation creates a validation error whose message is shown to the user
// as-is. The underlying error stays reachable through errors.As/Is.
func NewValidation(err error, msg string, code Code, details map[string]string) error {
	return &Error{err: err, msg: msg, errType: TypeValidation, code: code, details: details}
}

func NewServer(err error) error {
	return new(err, "Internal server error", TypeServer, CodeInternal)
}

func NewBusiness(msg string, code Code) error {
	return new(nil, msg, TypeBusiness, code)
}

// NewInvalidInput reports a malformed path or query value.
func NewInvalidInput(err error) error {
	return new(err, "validation error", TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat reports a request body that could not be decoded.
func NewInvalidFormat() error {
	return new(nil, "invalid request body", TypeValidation, CodeInvalidFormat)
}
