package pkgerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by stores for unknown keys. Use cases translate it
// with NewNotFound.
var ErrNotFound = errors.New("resource not found")

// Type classifies errors by who can fix them.
type Type int

const (
	TypeServer     Type = iota // The caller cannot fix it (entropy, encoding).
	TypeBusiness               // A rule about existing state (identifier taken, unknown node).
	TypeValidation             // Malformed or out-of-range input.
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

// Code is a stable identifier mapped to an HTTP status at the edge.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[Code]codeInfo{
	CodeInternal:      {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat: {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:  {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:      {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:      {"ERROR_CODE_CONFLICT", http.StatusConflict},
}

func (c Code) info() codeInfo {
	if info, ok := codes[c]; ok {
		return info
	}
	return codes[CodeInternal]
}

func (c Code) String() string { return c.info().name }

// Error carries a client-facing message next to the wrapped cause. Only the
// message is ever sent to clients.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return e.err.Error()
	case e.msg != "":
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Business rule violation"
	default:
		return "Internal error"
	}
}

// String is the verbose form used in server logs.
func (e *Error) String() string {
	return fmt.Sprintf("type=%s code=%s msg=%q cause=%v", e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string     { return e.msg }
func (e *Error) Type() Type      { return e.errType }
func (e *Error) Code() Code      { return e.code }
func (e *Error) Unwrap() error   { return e.err }
func (e *Error) StatusCode() int { return e.code.info().status }

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

func newError(err error, msg string, et Type, code Code) error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return newError(err, "Internal server error", TypeServer, CodeInternal)
}

// NewNotFound reports that what does not exist, e.g. NewNotFound("node").
func NewNotFound(what string) error {
	return newError(ErrNotFound, what+" not found", TypeBusiness, CodeNotFound)
}

// NewConflict reports a clash with existing state.
func NewConflict(msg string) error {
	return newError(nil, msg, TypeBusiness, CodeConflict)
}

// NewInvalidInput uses err's text as the message so clients learn which
// constraint failed.
func NewInvalidInput(err error) error {
	return newError(err, err.Error(), TypeValidation, CodeInvalidInput)
}

// NewInvalidFormat reports input that cannot be parsed at all.
func NewInvalidFormat(what string) error {
	return newError(nil, "invalid "+what, TypeValidation, CodeInvalidFormat)
}
