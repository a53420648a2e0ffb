package detect

import (
	"errors"
	"strings"

	"github.com/tsawler/sigil/model"
)

// ErrNoAnchor reports that no page text matched any anchor pattern. This is
// a normal detection outcome, not a failure: callers fall through to
// blank-space or fallback placement.
var ErrNoAnchor = errors.New("no anchor keyword found")

// Anchor is a located keyword match. When HasToken is false the match was
// found in the page text but spans token boundaries, so no single bounding
// box exists; callers use an estimated position instead.
type Anchor struct {
	Page     int
	Keyword  string     // the matched text
	Token    model.Rect // box of the matching token, top-left origin
	HasToken bool
}

// Locator scans page text for anchor keywords
type Locator struct {
	patterns *patternSet
}

// NewLocator compiles an ordered anchor pattern list. With no arguments it
// uses DefaultPatterns.
func NewLocator(patterns ...string) (*Locator, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	set, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &Locator{patterns: set}, nil
}

// FindAnchor scans pages from last to first, signature blocks being
// conventionally near the document end, and returns the first anchor found.
// The boolean is false when no page matches; that is not an error.
func (l *Locator) FindAnchor(geoms []model.PageGeometry) (Anchor, bool) {
	for i := len(geoms) - 1; i >= 0; i-- {
		if anchor, ok := l.FindOnPage(geoms[i]); ok {
			return anchor, true
		}
	}
	return Anchor{}, false
}

// FindOnPage checks a single page's text against the pattern list and, on a
// match, locates the token whose normalized text contains the match.
func (l *Locator) FindOnPage(geom model.PageGeometry) (Anchor, bool) {
	pageText := normalize(geom.Text())
	if pageText == "" {
		return Anchor{}, false
	}

	matched := l.patterns.match(pageText)
	if matched == "" {
		return Anchor{}, false
	}

	anchor := Anchor{Page: geom.Index, Keyword: matched}

	if tok, ok := findToken(geom.Words, matched); ok {
		anchor.Token = tok.BBox
		anchor.HasToken = true
	}

	return anchor, true
}

// findToken locates the word token containing the matched text. Multi-word
// matches are located by their first word.
func findToken(words []model.TextToken, matched string) (model.TextToken, bool) {
	needle := matched
	if fields := strings.Fields(matched); len(fields) > 0 {
		needle = fields[0]
	}

	for _, w := range words {
		if strings.Contains(normalize(w.Text), needle) {
			return w, true
		}
	}

	// The match may straddle a token split mid-word; retry with a prefix
	if len(needle) > 4 {
		prefix := needle[:4]
		for _, w := range words {
			if strings.Contains(normalize(w.Text), prefix) {
				return w, true
			}
		}
	}

	return model.TextToken{}, false
}
