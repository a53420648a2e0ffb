package model

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// Line represents a geometric line or rectangle extracted from page graphics.
// Rectangles are carried as their top-left to bottom-right diagonal with
// IsRect set.
type Line struct {
	Start    Point
	End      Point
	Width    float64
	Color    Color
	IsRect   bool
	RectFill bool
}

// BoundingBox returns the axis-aligned box covering the line or rectangle
// in bottom-left origin space.
func (l Line) BoundingBox() BBox {
	minX, maxX := l.Start.X, l.End.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := l.Start.Y, l.End.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsHorizontal reports whether the line is horizontal within tolerance
func (l Line) IsHorizontal(tolerance float64) bool {
	d := l.Start.Y - l.End.Y
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// Length returns the horizontal extent of the line
func (l Line) Length() float64 {
	d := l.End.X - l.Start.X
	if d < 0 {
		d = -d
	}
	return d
}
