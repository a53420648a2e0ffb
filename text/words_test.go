package text

import (
	"testing"
)

func frag(text string, x, y, w, h, size float64) TextFragment {
	return TextFragment{Text: text, X: x, Y: y, Width: w, Height: h, FontSize: size}
}

func TestWordsJoinsAdjacentFragments(t *testing.T) {
	// "Sig" + "nature:" emitted as two touching fragments on one line
	fragments := []TextFragment{
		frag("Sig", 100, 700, 18, 12, 12),
		frag("nature:", 118, 700, 40, 12, 12),
	}

	words := Words(fragments, 792)
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d: %+v", len(words), words)
	}
	if words[0].Text != "Signature:" {
		t.Errorf("joined text = %q, want Signature:", words[0].Text)
	}

	box := words[0].BBox
	if box.X0 != 100 || box.X1 != 158 {
		t.Errorf("merged box = %+v", box)
	}
	// bottom-left Y 700 on a 792pt page puts the token's bottom at 92 from
	// the top
	if box.Bottom != 92 {
		t.Errorf("token bottom = %v, want 92", box.Bottom)
	}
}

func TestWordsSplitsOnGap(t *testing.T) {
	fragments := []TextFragment{
		frag("Authorized", 100, 700, 60, 12, 12),
		frag("Signature:", 170, 700, 55, 12, 12), // 10pt gap > 0.3 * 12
	}

	words := Words(fragments, 792)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
	if words[0].Text != "Authorized" || words[1].Text != "Signature:" {
		t.Errorf("unexpected tokens: %+v", words)
	}
}

func TestWordsSplitsOnExplicitSpace(t *testing.T) {
	fragments := []TextFragment{
		frag("Signed by", 100, 700, 55, 12, 12),
	}

	words := Words(fragments, 792)
	// A single fragment with an internal space stays one token; splitting
	// would require glyph-level boxes the extractor does not keep.
	if len(words) != 1 || words[0].Text != "Signed by" {
		t.Errorf("unexpected tokens: %+v", words)
	}
}

func TestWordsDropsWhitespaceFragments(t *testing.T) {
	fragments := []TextFragment{
		frag("Name", 100, 700, 30, 12, 12),
		frag(" ", 130, 700, 3, 12, 12),
		frag("Date", 140, 700, 28, 12, 12),
	}

	words := Words(fragments, 792)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
}

func TestWordsSeparatesLines(t *testing.T) {
	fragments := []TextFragment{
		frag("Top", 100, 700, 25, 12, 12),
		frag("Bottom", 100, 100, 45, 12, 12),
	}

	words := Words(fragments, 792)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	// Words come out top of page first
	if words[0].Text != "Top" || words[1].Text != "Bottom" {
		t.Errorf("unexpected order: %+v", words)
	}
	if words[0].BBox.Top >= words[1].BBox.Top {
		t.Errorf("top-of-page token should have the smaller Top: %+v", words)
	}
}

func TestWordsEmptyInput(t *testing.T) {
	if got := Words(nil, 792); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
}
