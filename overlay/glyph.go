package overlay

import (
	"crypto/md5"

	"github.com/tsawler/sigil/contentstream"
)

const glyphGrid = 7

// glyphDataCells derives the stamp's data cells from the document id: the
// first 12 digest bytes each may light one cell in the grid interior, so
// the same document always gets the same stamp. Cells are (col, row) with
// row 0 at the bottom.
func glyphDataCells(documentID string) [][2]int {
	sum := md5.Sum([]byte(documentID))
	var cells [][2]int
	for i, b := range sum[:12] {
		if b%3 != 0 {
			continue
		}
		row := i/4 + 2
		col := i%4 + 2
		if row < glyphGrid-1 && col < glyphGrid-1 {
			cells = append(cells, [2]int{col, row})
		}
	}
	return cells
}

// drawGlyph paints the document stamp into a size x size slot whose
// bottom-left corner is (x, y) in render coordinates: three 2x2
// positioning squares in the corners, then the digest-derived data cells.
func drawGlyph(w *contentstream.Writer, documentID string, x, y, size float64) {
	cell := size / glyphGrid
	for _, corner := range [][2]int{{0, 0}, {0, 5}, {5, 0}} {
		w.Rectangle(x+float64(corner[0])*cell, y+float64(corner[1])*cell, 2*cell, 2*cell)
	}
	for _, c := range glyphDataCells(documentID) {
		w.Rectangle(x+float64(c[0])*cell, y+float64(c[1])*cell, cell*0.8, cell*0.8)
	}
	w.Fill()
}
