package reader

import (
	"fmt"

	"github.com/tsawler/sigil/graphicsstate"
	"github.com/tsawler/sigil/model"
	"github.com/tsawler/sigil/pages"
	"github.com/tsawler/sigil/text"
)

// PageGeometry derives the placement-search view of one page: dimensions,
// word tokens, and drawn line/rectangle boxes, all in top-left origin space.
// Geometry is computed fresh on every call; nothing is cached across
// requests and no page content is mutated.
func (r *Reader) PageGeometry(index int) (model.PageGeometry, error) {
	page, err := r.GetPage(index)
	if err != nil {
		return model.PageGeometry{}, fmt.Errorf("failed to load page %d: %w", index, err)
	}

	width, err := page.Width()
	if err != nil {
		return model.PageGeometry{}, fmt.Errorf("page %d has no usable media box: %w", index, err)
	}
	height, err := page.Height()
	if err != nil {
		return model.PageGeometry{}, fmt.Errorf("page %d has no usable media box: %w", index, err)
	}

	geom := model.PageGeometry{
		Index:  index,
		Width:  width,
		Height: height,
	}

	fragments, err := r.ExtractTextFragments(page)
	if err != nil {
		return model.PageGeometry{}, err
	}
	geom.Words = text.Words(fragments, height)

	lines, rects, err := r.extractGraphics(page, height)
	if err != nil {
		return model.PageGeometry{}, err
	}
	geom.Lines = lines
	geom.Rects = rects

	return geom, nil
}

// AllPageGeometry derives geometry for every page, in order. A document that
// parses but has zero pages is reported as ErrParse.
func (r *Reader) AllPageGeometry() ([]model.PageGeometry, error) {
	count, err := r.PageCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrParse)
	}

	geoms := make([]model.PageGeometry, 0, count)
	for i := 0; i < count; i++ {
		geom, err := r.PageGeometry(i)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, geom)
	}
	return geoms, nil
}

// extractGraphics pulls drawn lines and rectangles from a page's content
// streams and converts them to top-left origin boxes.
func (r *Reader) extractGraphics(page *pages.Page, pageHeight float64) ([]model.Rect, []model.Rect, error) {
	data, err := pageContentBytes(page)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, nil
	}

	extractor := graphicsstate.NewGraphicsExtractor()
	if err := extractor.ExtractFromBytes(data); err != nil {
		return nil, nil, fmt.Errorf("failed to extract graphics: %w", err)
	}

	var lines []model.Rect
	for _, l := range extractor.ToModelLines() {
		lines = append(lines, model.RectFromBBox(l.BoundingBox(), pageHeight))
	}

	var rects []model.Rect
	for _, rect := range extractor.ToModelRectangles() {
		rects = append(rects, model.RectFromBBox(rect.BoundingBox(), pageHeight))
	}

	return lines, rects, nil
}
