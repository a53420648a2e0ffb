package detect

import (
	"errors"
	"math"

	"github.com/tsawler/sigil/model"
)

// ErrNoFreeSpace reports that no candidate rectangle avoided every obstacle.
// Callers fall back to an overlap-permitting or strategy-supplied position;
// the placement is never silently dropped.
var ErrNoFreeSpace = errors.New("no free space on page")

// Search tuning. Obstacles grow by Padding on all sides, candidates must
// stay Margin inside the page edges, and raster scans advance by Step.
const (
	ObstaclePadding = 6.0
	PageMargin      = 10.0
	ScanStep        = 25.0

	// anchored candidates are generated within this radius of the anchor
	searchRadius = 200.0

	// gap left between the anchor token and an adjacent candidate
	anchorGap = 5.0

	// scoring weights: bonuses reward the lower/left page regions, the
	// center penalty is large enough to dominate any achievable distance
	bottomBonus   = 50.0
	leftBonus     = 25.0
	centerPenalty = 10000.0
)

// SpaceSearch finds free rectangles on a page by obstacle avoidance
type SpaceSearch struct {
	Padding float64
	Margin  float64
	Step    float64
}

// NewSpaceSearch returns a search with the default tuning
func NewSpaceSearch() *SpaceSearch {
	return &SpaceSearch{
		Padding: ObstaclePadding,
		Margin:  PageMargin,
		Step:    ScanStep,
	}
}

// exclusionZone returns the central region candidates should avoid: the
// middle 40% of the page width crossed with the middle 50% of its height.
func exclusionZone(geom model.PageGeometry) model.Rect {
	return model.Rect{
		X0:     geom.Width * 0.30,
		X1:     geom.Width * 0.70,
		Top:    geom.Height * 0.25,
		Bottom: geom.Height * 0.75,
	}
}

func (s *SpaceSearch) inPage(geom model.PageGeometry, r model.Rect) bool {
	return r.X0 >= s.Margin && r.Top >= s.Margin &&
		r.X1 <= geom.Width-s.Margin && r.Bottom <= geom.Height-s.Margin
}

func clearOf(r model.Rect, obstacles []model.Rect) bool {
	for _, ob := range obstacles {
		if r.Intersects(ob) {
			return false
		}
	}
	return true
}

func isCentral(r model.Rect, zone model.Rect) bool {
	return zone.Contains(r.CenterX(), r.CenterY())
}

// FindAnchored searches for a w × h rectangle near the anchor box. It
// scores every valid candidate by distance to the anchor, discounted for
// the lower and left page regions and heavily penalized inside the central
// exclusion zone, and returns the minimum-score candidate. When nothing
// valid exists anywhere, it returns ErrNoFreeSpace; callers then use
// PlaceAdjacent which permits minor overlap.
func (s *SpaceSearch) FindAnchored(geom model.PageGeometry, w, h float64, anchor model.Rect) (model.Rect, error) {
	obstacles := geom.Obstacles(s.Padding)
	zone := exclusionZone(geom)

	best := model.Rect{}
	bestScore := math.Inf(1)
	found := false

	consider := func(r model.Rect) {
		if !s.inPage(geom, r) || !clearOf(r, obstacles) {
			return
		}
		score := s.score(geom, zone, anchor, r)
		if score < bestScore {
			best, bestScore = r, score
			found = true
		}
	}

	// Directly adjacent candidates: above, right, below, left
	consider(model.NewRect(anchor.X0, anchor.Top-h-anchorGap, w, h))
	consider(model.NewRect(anchor.X1+anchorGap, anchor.Top, w, h))
	consider(model.NewRect(anchor.X0, anchor.Bottom+anchorGap, w, h))
	consider(model.NewRect(anchor.X0-w-anchorGap, anchor.Top, w, h))

	// Local grid around the anchor, biased below-and-left, then
	// below-and-right, then above. Order only affects ties; scoring
	// carries the same bias.
	for dy := 0.0; dy <= searchRadius; dy += s.Step {
		for dx := -searchRadius; dx <= searchRadius; dx += s.Step {
			consider(model.NewRect(anchor.X0+dx, anchor.Bottom+dy, w, h))
		}
	}
	for dy := s.Step; dy <= searchRadius; dy += s.Step {
		for dx := -searchRadius; dx <= searchRadius; dx += s.Step {
			consider(model.NewRect(anchor.X0+dx, anchor.Top-h-dy, w, h))
		}
	}

	if !found {
		return model.Rect{}, ErrNoFreeSpace
	}
	return best, nil
}

// score is euclidean distance from candidate center to anchor center, minus
// bonuses for the bottom and left page regions, plus the center penalty.
func (s *SpaceSearch) score(geom model.PageGeometry, zone, anchor, r model.Rect) float64 {
	dx := r.CenterX() - anchor.CenterX()
	dy := r.CenterY() - anchor.CenterY()
	score := math.Hypot(dx, dy)

	if r.CenterY() > geom.Height*0.60 {
		score -= bottomBonus
	}
	if r.CenterX() < geom.Width*0.40 {
		score -= leftBonus
	}
	if isCentral(r, zone) {
		score += centerPenalty
	}
	return score
}

// PlaceAdjacent positions a w × h rectangle directly above the anchor,
// or below when above would leave insufficient top margin. Overlap with
// obstacles is permitted; the result is clamped into the page.
func (s *SpaceSearch) PlaceAdjacent(geom model.PageGeometry, w, h float64, anchor model.Rect) model.Rect {
	top := anchor.Top - h - anchorGap
	if top < s.Margin {
		top = anchor.Bottom + anchorGap
	}
	r := model.NewRect(anchor.X0, top, w, h)
	return clampRect(geom, r)
}

// FindUnanchored performs the raster scan for pages without an anchor.
// Four priority bands are scanned bottom-to-top, left-to-right: bottom-left
// quadrant, bottom-right quadrant, mid-left band, mid-right band. If no
// band yields a non-central candidate the whole page is scanned, and as
// absolute last resort central candidates are allowed.
func (s *SpaceSearch) FindUnanchored(geom model.PageGeometry, w, h float64) (model.Rect, error) {
	obstacles := geom.Obstacles(s.Padding)
	zone := exclusionZone(geom)

	midX := geom.Width / 2
	midY := geom.Height / 2
	quarterY := geom.Height / 4

	bands := []struct {
		x0, x1, yTop, yBottom float64
	}{
		{s.Margin, midX, midY, geom.Height - s.Margin},          // bottom-left
		{midX, geom.Width - s.Margin, midY, geom.Height - s.Margin}, // bottom-right
		{s.Margin, midX, quarterY, midY},                        // mid-left
		{midX, geom.Width - s.Margin, quarterY, midY},           // mid-right
	}

	for _, band := range bands {
		if r, ok := s.scanBand(geom, obstacles, zone, w, h, band.x0, band.x1, band.yTop, band.yBottom, false); ok {
			return r, nil
		}
	}

	// Whole page, still excluding the center
	if r, ok := s.scanBand(geom, obstacles, zone, w, h, s.Margin, geom.Width-s.Margin, s.Margin, geom.Height-s.Margin, false); ok {
		return r, nil
	}

	// Absolute last resort: allow the center
	if r, ok := s.scanBand(geom, obstacles, zone, w, h, s.Margin, geom.Width-s.Margin, s.Margin, geom.Height-s.Margin, true); ok {
		return r, nil
	}

	return model.Rect{}, ErrNoFreeSpace
}

// scanBand rasters a band bottom-to-top, left-to-right. Top-left origin
// makes bottom-to-top a descending Y walk.
func (s *SpaceSearch) scanBand(geom model.PageGeometry, obstacles []model.Rect, zone model.Rect, w, h, x0, x1, yTop, yBottom float64, allowCentral bool) (model.Rect, bool) {
	for top := yBottom - h; top >= yTop; top -= s.Step {
		for x := x0; x+w <= x1; x += s.Step {
			r := model.NewRect(x, top, w, h)
			if !s.inPage(geom, r) || !clearOf(r, obstacles) {
				continue
			}
			if !allowCentral && isCentral(r, zone) {
				continue
			}
			return r, true
		}
	}
	return model.Rect{}, false
}

func clampRect(geom model.PageGeometry, r model.Rect) model.Rect {
	w, h := r.Width(), r.Height()
	x, top := r.X0, r.Top
	if x < 0 {
		x = 0
	}
	if x+w > geom.Width {
		x = geom.Width - w
	}
	if top < 0 {
		top = 0
	}
	if top+h > geom.Height {
		top = geom.Height - h
	}
	return model.NewRect(x, top, w, h)
}
