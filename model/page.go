package model

// Rect is an axis-aligned rectangle in top-left origin space: Top < Bottom,
// Y grows downward. Extraction and placement work in this space; rendering
// works in the bottom-left origin space of BBox. Conversions between the two
// happen here and nowhere else.
type Rect struct {
	X0     float64 `json:"x0"`
	Top    float64 `json:"top"`
	X1     float64 `json:"x1"`
	Bottom float64 `json:"bottom"`
}

// NewRect builds a Rect from a top-left corner and a size
func NewRect(x, top, width, height float64) Rect {
	return Rect{X0: x, Top: top, X1: x + width, Bottom: top + height}
}

// Width returns the horizontal extent
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Intersects reports whether two rectangles overlap
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && r.X1 > other.X0 &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Contains reports whether the point (x, y) lies inside the rectangle
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Top && y <= r.Bottom
}

// Expand grows the rectangle outward by the given margin on all sides
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X0:     r.X0 - margin,
		Top:    r.Top - margin,
		X1:     r.X1 + margin,
		Bottom: r.Bottom + margin,
	}
}

// RectFromBBox converts a bottom-left origin box to top-left origin space
// on a page of the given height.
func RectFromBBox(b BBox, pageHeight float64) Rect {
	return Rect{
		X0:     b.X,
		Top:    pageHeight - (b.Y + b.Height),
		X1:     b.X + b.Width,
		Bottom: pageHeight - b.Y,
	}
}

// ToBBox converts back to bottom-left origin space on a page of the given
// height.
func (r Rect) ToBBox(pageHeight float64) BBox {
	return BBox{
		X:      r.X0,
		Y:      pageHeight - r.Bottom,
		Width:  r.Width(),
		Height: r.Height(),
	}
}

// TextToken is a word-level text token with its box in top-left origin space
type TextToken struct {
	Text string
	BBox Rect
}

// PageGeometry holds everything placement search needs to know about one
// page: its size and the boxes of all content that must not be covered.
// It is derived fresh per analysis call and never cached across requests.
type PageGeometry struct {
	Index  int // 0-based
	Width  float64
	Height float64
	Words  []TextToken
	Lines  []Rect
	Rects  []Rect
}

// Text returns the page's full extracted text, tokens joined by spaces
func (g PageGeometry) Text() string {
	var total int
	for _, w := range g.Words {
		total += len(w.Text) + 1
	}
	buf := make([]byte, 0, total)
	for i, w := range g.Words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w.Text...)
	}
	return string(buf)
}

// Obstacles returns every word, line, and rectangle box expanded by the
// given padding, the obstacle set blank-space search avoids.
func (g PageGeometry) Obstacles(padding float64) []Rect {
	out := make([]Rect, 0, len(g.Words)+len(g.Lines)+len(g.Rects))
	for _, w := range g.Words {
		out = append(out, w.BBox.Expand(padding))
	}
	for _, l := range g.Lines {
		out = append(out, l.Expand(padding))
	}
	for _, r := range g.Rects {
		out = append(out, r.Expand(padding))
	}
	return out
}
