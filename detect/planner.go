package detect

import (
	"math/rand"

	"github.com/tsawler/sigil/model"
)

// Default placement footprints, in points. The generic box holds the
// signature image plus the three-line attestation text below it; the audit
// box additionally carries the metadata column and the decorative glyph
// slot, so it is wider and taller.
const (
	SignatureWidth  = 120.0
	SignatureHeight = 40.0
	TextBlockHeight = 30.0

	// Audit box footprint for the default signature slot: the text column
	// plus the glyph column across, and title, signature row, and five
	// metadata lines down.
	AuditBoxWidth  = 280.0
	AuditBoxHeight = 145.0

	// minimum horizontal line length treated as a drawn signature line
	signatureLineLength = 100.0
)

// FallbackStrategy picks a position for the F2F policy when no free
// rectangle exists on the last page. The default is uniform random sampling
// within the bottom-left quadrant; whether that randomness is load-bearing
// (avoiding overlap across repeated signings) is unresolved, so the
// strategy is swappable rather than baked in.
type FallbackStrategy interface {
	Position(geom model.PageGeometry, w, h float64) model.Rect
}

// RandomFallback samples uniformly within the bottom-left quadrant
type RandomFallback struct {
	rng *rand.Rand
}

// NewRandomFallback seeds a random fallback. A nil-safe zero value is not
// provided on purpose; construction makes the nondeterminism explicit.
func NewRandomFallback(seed int64) *RandomFallback {
	return &RandomFallback{rng: rand.New(rand.NewSource(seed))}
}

func (f *RandomFallback) Position(geom model.PageGeometry, w, h float64) model.Rect {
	maxX := geom.Width/2 - w
	if maxX < PageMargin {
		maxX = PageMargin
	}
	x := PageMargin + f.rng.Float64()*(maxX-PageMargin)

	minTop := geom.Height * 0.55
	maxTop := geom.Height - PageMargin - h
	if maxTop < minTop {
		maxTop = minTop
	}
	top := minTop + f.rng.Float64()*(maxTop-minTop)

	return clampRect(geom, model.NewRect(x, top, w, h))
}

// FixedFallback is the deterministic alternative: a fixed offset into the
// bottom-left quadrant.
type FixedFallback struct{}

func (FixedFallback) Position(geom model.PageGeometry, w, h float64) model.Rect {
	return clampRect(geom, model.NewRect(geom.Width*0.10, geom.Height*0.75, w, h))
}

// Detection is the wire-shaped result of a placement scan
type Detection struct {
	Found      bool              `json:"found"`
	Positions  []model.Placement `json:"positions"`
	TotalPages int               `json:"total_pages"`
}

// Planner turns page geometry into an ordered list of placements under the
// generic or F2F policy.
type Planner struct {
	locator *Locator
	search  *SpaceSearch

	// generic placement footprint
	SigWidth, SigHeight float64

	// F2F audit box footprint
	AuditWidth, AuditHeight float64

	// Fallback supplies the F2F position when no free space exists
	Fallback FallbackStrategy

	// ScanText, when set, supplies recognized text for pages that have no
	// extractable words (scanned documents). Used only to decide keyword
	// presence; positions from it are estimates.
	ScanText func(pageIndex int) (string, error)
}

// NewPlanner builds a planner with the default patterns, search tuning,
// footprints, and random F2F fallback.
func NewPlanner() (*Planner, error) {
	locator, err := NewLocator()
	if err != nil {
		return nil, err
	}
	return &Planner{
		locator:     locator,
		search:      NewSpaceSearch(),
		SigWidth:    SignatureWidth,
		SigHeight:   SignatureHeight + TextBlockHeight,
		AuditWidth:  AuditBoxWidth,
		AuditHeight: AuditBoxHeight,
		Fallback:    NewRandomFallback(rand.Int63()),
	}, nil
}

// WithLocator replaces the anchor locator, for custom pattern lists
func (p *Planner) WithLocator(l *Locator) *Planner {
	p.locator = l
	return p
}

// DetectAll runs the generic policy: every page whose text matches an
// anchor pattern gets one placement, scanned last to first; at most one
// placement per page. When no page matches, exactly one low-confidence
// fallback placement is emitted on the last page.
func (p *Planner) DetectAll(geoms []model.PageGeometry) Detection {
	det := Detection{TotalPages: len(geoms)}
	if len(geoms) == 0 {
		return det
	}

	for i := len(geoms) - 1; i >= 0; i-- {
		if pl, ok := p.placeOnPage(geoms[i]); ok {
			det.Positions = append(det.Positions, pl)
		}
	}

	if len(det.Positions) == 0 {
		det.Positions = append(det.Positions, p.fallbackPlacement(geoms[len(geoms)-1]))
	}

	det.Found = true
	return det
}

// placeOnPage produces the page's placement when its text anchors one
func (p *Planner) placeOnPage(geom model.PageGeometry) (model.Placement, bool) {
	anchor, ok := p.locator.FindOnPage(geom)
	if !ok {
		if keyword, hit := p.scannedPageKeyword(geom); hit {
			return p.estimatedPlacement(geom, keyword, model.MethodOCRText), true
		}
		if line, found := signatureLine(geom); found {
			return p.lineAnchoredPlacement(geom, line), true
		}
		return model.Placement{}, false
	}

	if !anchor.HasToken {
		// Keyword present in page text but split across tokens: estimate
		// the conventional signature area instead.
		return p.estimatedPlacement(geom, anchor.Keyword, model.MethodTextSearch), true
	}

	rect, err := p.search.FindAnchored(geom, p.SigWidth, p.SigHeight, anchor.Token)
	if err != nil {
		rect = p.search.PlaceAdjacent(geom, p.SigWidth, p.SigHeight, anchor.Token)
	}

	return model.Placement{
		Page:       geom.Index,
		X:          rect.X0,
		Y:          rect.Top,
		Width:      rect.Width(),
		Height:     rect.Height(),
		Confidence: model.ConfidenceHigh,
		Method:     model.MethodKeywordMatch,
	}.WithKeyword(anchor.Keyword).ClampTo(geom.Width, geom.Height), true
}

// estimatedPlacement targets the conventional signature area when a
// keyword is known to be present but has no usable token geometry.
func (p *Planner) estimatedPlacement(geom model.PageGeometry, keyword, method string) model.Placement {
	return model.Placement{
		Page:       geom.Index,
		X:          geom.Width * 0.10,
		Y:          geom.Height * 0.70,
		Width:      p.SigWidth,
		Height:     p.SigHeight,
		Confidence: model.ConfidenceMedium,
		Method:     method,
	}.WithKeyword(keyword).ClampTo(geom.Width, geom.Height)
}

// scannedPageKeyword consults the ScanText hook for pages without words
func (p *Planner) scannedPageKeyword(geom model.PageGeometry) (string, bool) {
	if p.ScanText == nil || len(geom.Words) > 0 {
		return "", false
	}
	text, err := p.ScanText(geom.Index)
	if err != nil || text == "" {
		return "", false
	}
	matched := p.locator.patterns.match(normalize(text))
	if matched == "" {
		return "", false
	}
	return matched, true
}

// signatureLine finds a drawn horizontal rule in the bottom half of the
// page long enough to be a signature line.
func signatureLine(geom model.PageGeometry) (model.Rect, bool) {
	var best model.Rect
	found := false
	for _, line := range geom.Lines {
		if line.Width() < signatureLineLength {
			continue
		}
		if line.Top < geom.Height/2 {
			continue
		}
		// Prefer the lowest qualifying line
		if !found || line.Top > best.Top {
			best = line
			found = true
		}
	}
	return best, found
}

// lineAnchoredPlacement positions the signature directly above a drawn line
func (p *Planner) lineAnchoredPlacement(geom model.PageGeometry, line model.Rect) model.Placement {
	return model.Placement{
		Page:       geom.Index,
		X:          line.X0,
		Y:          line.Top - p.SigHeight - anchorGap,
		Width:      p.SigWidth,
		Height:     p.SigHeight,
		Confidence: model.ConfidenceMedium,
		Method:     model.MethodLineDetection,
	}.ClampTo(geom.Width, geom.Height)
}

// fallbackPlacement emits the single last-page placement used when nothing
// in the document matched.
func (p *Planner) fallbackPlacement(geom model.PageGeometry) model.Placement {
	rect, err := p.search.FindUnanchored(geom, p.SigWidth, p.SigHeight)
	if err != nil {
		// Dense page: conventional bottom-left area, overlap permitted
		return model.Placement{
			Page:       geom.Index,
			X:          geom.Width * 0.10,
			Y:          geom.Height * 0.75,
			Width:      p.SigWidth,
			Height:     p.SigHeight,
			Confidence: model.ConfidenceLow,
			Method:     model.MethodFallbackBottom,
		}.ClampTo(geom.Width, geom.Height)
	}

	return model.Placement{
		Page:       geom.Index,
		X:          rect.X0,
		Y:          rect.Top,
		Width:      rect.Width(),
		Height:     rect.Height(),
		Confidence: model.ConfidenceLow,
		Method:     model.MethodBlankArea,
	}
}

// DetectF2F runs the face-to-face policy: keyword search is skipped
// entirely and exactly one audit-box-sized placement lands on the last
// page. When the page has no free space the position comes from the
// fallback strategy with medium confidence.
func (p *Planner) DetectF2F(geoms []model.PageGeometry) Detection {
	det := Detection{TotalPages: len(geoms)}
	if len(geoms) == 0 {
		return det
	}

	last := geoms[len(geoms)-1]

	rect, err := p.search.FindUnanchored(last, p.AuditWidth, p.AuditHeight)
	if err != nil {
		rect = p.Fallback.Position(last, p.AuditWidth, p.AuditHeight)
		det.Positions = append(det.Positions, model.Placement{
			Page:       last.Index,
			X:          rect.X0,
			Y:          rect.Top,
			Width:      rect.Width(),
			Height:     rect.Height(),
			Confidence: model.ConfidenceMedium,
			Method:     model.MethodFallbackRandom,
		})
		det.Found = true
		return det
	}

	det.Positions = append(det.Positions, model.Placement{
		Page:       last.Index,
		X:          rect.X0,
		Y:          rect.Top,
		Width:      rect.Width(),
		Height:     rect.Height(),
		Confidence: model.ConfidenceHigh,
		Method:     model.MethodBlankArea,
	})
	det.Found = true
	return det
}

// Detect dispatches on document class
func (p *Planner) Detect(geoms []model.PageGeometry, f2f bool) Detection {
	if f2f {
		return p.DetectF2F(geoms)
	}
	return p.DetectAll(geoms)
}
