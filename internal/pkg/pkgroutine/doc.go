// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type limits concurrency, collects returned errors, and turns
// panics into ErrPanic so a crashing task fails its batch instead of the
// process.
package pkgroutine
