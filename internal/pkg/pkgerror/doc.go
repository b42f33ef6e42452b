// Package pkgerror defines the structured error returned by use cases.
//
// An *Error pairs a client-facing message with a Type and a Code; the router
// turns the Code into an HTTP status and never exposes the wrapped cause.
// Library packages such as pkguid return plain wrapped errors; use cases
// translate them into *Error before they reach a handler.
package pkgerror
