package model


// Confidence describes how certain placement detection is about a position
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Detection method tags carried on placements
const (
	MethodKeywordMatch   = "keyword_match"
	MethodLineDetection  = "line_detection"
	MethodTextSearch     = "text_search"
	MethodBlankArea      = "blank_area"
	MethodFallbackBottom = "fallback_bottom"
	MethodFallbackRandom = "fallback_random"
	MethodOCRText        = "ocr_text"
)

// Placement describes where and how confidently a signature should be drawn
// on one page. X and Y are the top-left corner in top-left origin space.
type Placement struct {
	Page       int        `json:"page"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Confidence Confidence `json:"confidence"`
	Method     string     `json:"method"`
	Keyword    *string    `json:"keyword"`
}

// Rect returns the placement's bounding rectangle in top-left origin space
func (p Placement) Rect() Rect {
	return NewRect(p.X, p.Y, p.Width, p.Height)
}

// WithKeyword sets the keyword field, used by anchored placements
func (p Placement) WithKeyword(kw string) Placement {
	p.Keyword = &kw
	return p
}

// ClampTo shifts and clamps the placement so its rectangle lies fully
// within a width × height page.
func (p Placement) ClampTo(pageWidth, pageHeight float64) Placement {
	if p.X < 0 {
		p.X = 0
	}
	if p.X+p.Width > pageWidth {
		p.X = pageWidth - p.Width
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y+p.Height > pageHeight {
		p.Y = pageHeight - p.Height
	}
	return p
}

// RenderMode selects compositor behavior
type RenderMode int

const (
	// RenderStandard draws the signature image with a plain three-line
	// attestation text block below it.
	RenderStandard RenderMode = iota

	// RenderF2FAudit draws the decorated audit box: filled and bordered,
	// with title, metadata lines, and the decorative code glyph.
	RenderF2FAudit
)

func (m RenderMode) String() string {
	if m == RenderF2FAudit {
		return "f2f_audit"
	}
	return "standard"
}

// AttestationInfo carries the identity stamped alongside a signature
type AttestationInfo struct {
	SignerName string
	Timestamp  string // pre-formatted at the rendering boundary
	DocumentID string // optional
	IPAddress  string // optional
}
