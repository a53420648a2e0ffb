// Package assemble merges overlay content into parsed documents and writes
// the result out as a complete PDF.
//
// Assembly is a full rewrite: the reachable object graph is copied out of
// the source document with fresh object numbers, the target page gains an
// extra content stream plus the overlay's image and font resources, and the
// whole graph is serialized with a new xref table. Incremental-update
// output is deliberately not produced; a rewritten file has exactly one
// revision and no dangling prior xref chain.
//
// Multi-page stamping is strictly sequential. Each overlay is applied to
// the bytes produced by the previous application, re-parsing in between, so
// every placement sees a well-formed document and object numbering never
// has to be reconciled across overlays.
package assemble
