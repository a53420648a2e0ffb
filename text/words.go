package text

import (
	"sort"
	"strings"

	"github.com/tsawler/sigil/model"
)

// Words groups extracted fragments into word-level tokens with merged
// bounding boxes, converted to top-left origin space on a page of the given
// height. Placement search treats each token as one obstacle, so fragments
// split mid-word by the content stream must be joined back together and
// whitespace-only fragments dropped.
func Words(fragments []TextFragment, pageHeight float64) []model.TextToken {
	if len(fragments) == 0 {
		return nil
	}

	var tokens []model.TextToken
	for _, line := range groupByLine(fragments) {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
		tokens = append(tokens, splitLineIntoWords(line, pageHeight)...)
	}
	return tokens
}

// groupByLine buckets fragments by baseline Y within half-height tolerance
func groupByLine(fragments []TextFragment) [][]TextFragment {
	sorted := make([]TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y // top of page first
	})

	var lines [][]TextFragment
	current := []TextFragment{sorted[0]}
	for _, frag := range sorted[1:] {
		prev := current[len(current)-1]
		tolerance := prev.Height * 0.5
		if tolerance <= 0 {
			tolerance = prev.FontSize * 0.5
		}
		if abs(frag.Y-prev.Y) <= tolerance {
			current = append(current, frag)
		} else {
			lines = append(lines, current)
			current = []TextFragment{frag}
		}
	}
	return append(lines, current)
}

// splitLineIntoWords walks a sorted line and cuts word boundaries at
// whitespace or at horizontal gaps wider than a fraction of the font size.
func splitLineIntoWords(line []TextFragment, pageHeight float64) []model.TextToken {
	var tokens []model.TextToken

	var text strings.Builder
	var x0, x1, y0, y1 float64
	open := false

	flush := func() {
		if !open {
			return
		}
		trimmed := strings.TrimSpace(text.String())
		if trimmed != "" {
			tokens = append(tokens, model.TextToken{
				Text: trimmed,
				BBox: model.RectFromBBox(model.BBox{
					X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0,
				}, pageHeight),
			})
		}
		text.Reset()
		open = false
	}

	for _, frag := range line {
		if strings.TrimSpace(frag.Text) == "" {
			flush()
			continue
		}

		if open {
			gap := frag.X - x1
			threshold := frag.FontSize * 0.3
			if threshold <= 0 {
				threshold = 2
			}
			if gap > threshold || endsWithSpace(text.String()) || startsWithSpace(frag.Text) {
				flush()
			}
		}

		if !open {
			x0, y0 = frag.X, frag.Y
			x1, y1 = frag.X+frag.Width, frag.Y+fragHeight(frag)
			open = true
		} else {
			if frag.X < x0 {
				x0 = frag.X
			}
			if frag.X+frag.Width > x1 {
				x1 = frag.X + frag.Width
			}
			if frag.Y < y0 {
				y0 = frag.Y
			}
			if frag.Y+fragHeight(frag) > y1 {
				y1 = frag.Y + fragHeight(frag)
			}
		}
		text.WriteString(frag.Text)
	}
	flush()

	return tokens
}

func fragHeight(f TextFragment) float64 {
	if f.Height > 0 {
		return f.Height
	}
	return f.FontSize
}

func endsWithSpace(s string) bool {
	return len(s) > 0 && isWhitespace(s[len(s)-1])
}

func startsWithSpace(s string) bool {
	return len(s) > 0 && isWhitespace(s[0])
}
