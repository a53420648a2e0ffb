package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRectConversionRoundTrip(t *testing.T) {
	pageHeight := 792.0

	tests := []struct {
		name string
		rect Rect
	}{
		{"near top", NewRect(100, 50, 120, 40)},
		{"near bottom", NewRect(10, 700, 200, 60)},
		{"full page", NewRect(0, 0, 612, 792)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bbox := tt.rect.ToBBox(pageHeight)
			back := RectFromBBox(bbox, pageHeight)
			if back != tt.rect {
				t.Errorf("round trip changed rect: got %+v, want %+v", back, tt.rect)
			}
		})
	}
}

func TestRectToBBoxFlipsOrigin(t *testing.T) {
	// A rect 40pt tall whose top is 50pt below the page top sits 702pt
	// above the page bottom.
	r := NewRect(100, 50, 120, 40)
	b := r.ToBBox(792)

	if b.X != 100 || b.Y != 702 || b.Width != 120 || b.Height != 40 {
		t.Errorf("unexpected bbox: %+v", b)
	}
}

func TestRectIntersects(t *testing.T) {
	base := NewRect(100, 100, 100, 100)

	tests := []struct {
		name     string
		other    Rect
		expected bool
	}{
		{"overlapping", NewRect(150, 150, 100, 100), true},
		{"contained", NewRect(120, 120, 20, 20), true},
		{"disjoint right", NewRect(300, 100, 50, 50), false},
		{"disjoint below", NewRect(100, 300, 50, 50), false},
		{"touching edge", NewRect(200, 100, 50, 50), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expected {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.expected)
			}
		})
	}
}

func TestRectExpand(t *testing.T) {
	r := NewRect(100, 100, 50, 30).Expand(6)
	if r.X0 != 94 || r.Top != 94 || r.X1 != 156 || r.Bottom != 136 {
		t.Errorf("unexpected expanded rect: %+v", r)
	}
}

func TestPlacementClampTo(t *testing.T) {
	tests := []struct {
		name         string
		p            Placement
		wantX, wantY float64
	}{
		{"inside unchanged", Placement{X: 100, Y: 100, Width: 120, Height: 40}, 100, 100},
		{"off right", Placement{X: 600, Y: 100, Width: 120, Height: 40}, 492, 100},
		{"off bottom", Placement{X: 100, Y: 780, Width: 120, Height: 40}, 100, 752},
		{"negative", Placement{X: -5, Y: -5, Width: 120, Height: 40}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.ClampTo(612, 792)
			if got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("ClampTo = (%.1f, %.1f), want (%.1f, %.1f)", got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPlacementJSONShape(t *testing.T) {
	p := Placement{
		Page: 1, X: 100, Y: 200, Width: 120, Height: 40,
		Confidence: ConfidenceHigh,
		Method:     MethodKeywordMatch,
	}.WithKeyword("Signature:")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{`"page":1`, `"confidence":"high"`, `"method":"keyword_match"`, `"keyword":"Signature:"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestPlacementJSONNullKeyword(t *testing.T) {
	p := Placement{Page: 0, Confidence: ConfidenceLow, Method: MethodFallbackBottom}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"keyword":null`) {
		t.Errorf("fallback placement must carry an explicit null keyword: %s", data)
	}
}

func TestPageGeometryText(t *testing.T) {
	g := PageGeometry{
		Words: []TextToken{
			{Text: "Authorized", BBox: NewRect(100, 700, 60, 12)},
			{Text: "Signature:", BBox: NewRect(165, 700, 55, 12)},
		},
	}

	if got := g.Text(); got != "Authorized Signature:" {
		t.Errorf("Text() = %q", got)
	}
}

func TestPageGeometryObstacles(t *testing.T) {
	g := PageGeometry{
		Words: []TextToken{{Text: "x", BBox: NewRect(10, 10, 20, 10)}},
		Lines: []Rect{NewRect(10, 100, 200, 1)},
		Rects: []Rect{NewRect(300, 300, 50, 50)},
	}

	obstacles := g.Obstacles(5)
	if len(obstacles) != 3 {
		t.Fatalf("expected 3 obstacles, got %d", len(obstacles))
	}
	if obstacles[0].X0 != 5 || obstacles[0].Top != 5 {
		t.Errorf("word obstacle not expanded: %+v", obstacles[0])
	}
}

func TestLineBoundingBox(t *testing.T) {
	l := Line{Start: Point{X: 200, Y: 50}, End: Point{X: 80, Y: 50}}
	b := l.BoundingBox()
	if b.X != 80 || b.Width != 120 || b.Height != 0 {
		t.Errorf("unexpected bbox: %+v", b)
	}
	if !l.IsHorizontal(0.5) {
		t.Error("expected horizontal line")
	}
	if l.Length() != 120 {
		t.Errorf("Length() = %v, want 120", l.Length())
	}
}

func TestBBoxIntersects(t *testing.T) {
	a := BBox{X: 0, Y: 0, Width: 100, Height: 100}
	b := BBox{X: 50, Y: 50, Width: 100, Height: 100}
	c := BBox{X: 200, Y: 200, Width: 10, Height: 10}

	if !a.Intersects(b) {
		t.Error("expected a and b to intersect")
	}
	if a.Intersects(c) {
		t.Error("expected a and c to be disjoint")
	}
}

func TestMatrixTranslateTransform(t *testing.T) {
	m := Translate(10, 20)
	p := m.Transform(Point{X: 1, Y: 2})
	if p.X != 11 || p.Y != 22 {
		t.Errorf("Transform = %+v", p)
	}
}
