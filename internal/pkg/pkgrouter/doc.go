// Package pkgrouter is the HTTP edge of the service: an httprouter-backed
// Router whose handlers return a payload or an error, wrapped in panic
// recovery, correlation ids and request logging.
//
// Payloads are sent in a {message, data, meta} envelope. Errors are sent as
// {message}, with the status taken from *pkgerror.Error.
package pkgrouter
