// Package sign is the orchestration layer: it takes a signing request
// through detection, compositing, and assembly, tracking each document
// through the signing lifecycle.
//
// A document moves Pending -> Planned -> Compositing -> Signed, or to
// Failed from any working state. Documents that are already signed, either
// per the tracker or per the marker in the file itself, are rejected with
// ErrAlreadySigned rather than double-stamped. Batch signing fans out over
// a bounded worker group; one document's failure never aborts the others.
package sign
