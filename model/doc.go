// Package model provides the shared data types for signature placement and
// compositing.
//
// # Geometry
//
// Two coordinate spaces meet here. Extraction and placement search work in
// top-left origin space ([Rect]: Y grows downward), the convention of layout
// analysis. Rendering works in bottom-left origin space ([BBox]: Y grows
// upward), the convention of page content streams. [RectFromBBox] and
// [Rect.ToBBox] are the only conversion points; every cross-package value
// documents which space it uses.
//
// Geometric primitives:
//
//   - [BBox] - bottom-left origin box with intersection, union, overlap
//   - [Rect] - top-left origin box used for obstacles and placements
//   - [Point] - 2D point with distance calculation
//   - [Matrix] - 2D affine transformation matrix
//   - [Line] - extracted line or rectangle primitive
//
// # Placement
//
// A [Placement] is a page-scoped rectangle plus metadata describing where
// and how confidently a signature should be drawn. Placements serialize to
// the wire shape detection and signing requests use. [PageGeometry] carries
// everything placement search needs to know about one page: dimensions,
// word tokens, and drawn line/rectangle obstacles.
//
// # Attestation
//
// [AttestationInfo] is the identity stamped alongside a signature, and
// [RenderMode] selects between the plain text block and the decorated
// audit box.
package model
