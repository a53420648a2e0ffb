// Package sigil provides a fluent API for placing and compositing
// signatures into PDF documents.
//
// Basic usage:
//
//	signed, _, err := sigil.Open("contract.pdf").
//	    Signer("Jane Roe").
//	    Sign()
//	if err != nil {
//	    // handle error
//	}
//
// Detection without signing:
//
//	detection, err := sigil.Open("contract.pdf").Detect()
//
// Face-to-face signing renders an audit box on the last page instead of
// searching for keywords:
//
//	signed, _, err := sigil.Open("consent.pdf").
//	    Signer("Dr. A. Sharma").
//	    IP("10.0.0.7").
//	    F2F().
//	    Sign()
//
// For service deployments with document and artwork storage, the sign
// package offers the same pipeline behind sources and a batch API; the
// lower-level reader, detect, overlay, and assemble packages are also
// available.
package sigil

import (
	"fmt"
	"os"
)

// Open reads a PDF file and returns a Job for fluent configuration.
// Errors surface at the terminal operation.
//
// Example:
//
//	detection, err := sigil.Open("contract.pdf").Detect()
func Open(filename string) *Job {
	data, err := os.ReadFile(filename)
	if err != nil {
		return &Job{err: fmt.Errorf("opening %s: %w", filename, err)}
	}
	return FromBytes(data)
}

// FromBytes starts a Job over in-memory document bytes. The slice is not
// copied; callers must not mutate it before the terminal operation.
func FromBytes(data []byte) *Job {
	return &Job{data: data}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	detection := sigil.Must(sigil.Open("contract.pdf").Detect())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
