package assemble

import (
	"errors"
	"fmt"

	"github.com/tsawler/sigil/core"
	"github.com/tsawler/sigil/reader"
)

// ErrPageOutOfRange reports an overlay aimed at a page the document does
// not have.
var ErrPageOutOfRange = errors.New("page index out of range")

// Overlay is one unit of content to stamp onto a page. Content holds
// finished content stream operations; Image and Mask, when present, are the
// XObject streams those operations reference by ImageName. FontName is the
// text font resource the operations reference.
type Overlay struct {
	Page         int
	Content      []byte
	Image        *core.Stream
	Mask         *core.Stream
	ImageName    string
	FontName     string
	BoldFontName string

	// MarkSigned stamps the output catalog with the signed marker so the
	// document is recognizably signed when reopened later.
	MarkSigned bool
}

// SignedMarker is the catalog key identifying documents this assembler has
// already stamped.
const SignedMarker = "SigilSigned"

// IsSigned reports whether a catalog carries the signed marker
func IsSigned(catalog core.Dict) bool {
	return catalog != nil && catalog.Has(SignedMarker)
}

// Assembler stamps overlays onto documents
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Apply copies the document's object graph, stamps one overlay onto its
// page, and returns the rewritten file.
func (a *Assembler) Apply(r *reader.Reader, ov Overlay) ([]byte, error) {
	count, err := r.PageCount()
	if err != nil {
		return nil, err
	}
	if ov.Page < 0 || ov.Page >= count {
		return nil, fmt.Errorf("page %d of %d-page document: %w", ov.Page, count, ErrPageOutOfRange)
	}

	trailer := r.Trailer()
	rootRef, ok := trailer.GetIndirectRef("Root")
	if !ok {
		return nil, fmt.Errorf("trailer has no Root reference")
	}

	c := newCopier(r)
	newRoot, err := c.copyRef(rootRef)
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}

	newTrailer := core.Dict{"Root": newRoot}
	if infoRef, ok := trailer.GetIndirectRef("Info"); ok {
		if newInfo, err := c.copyRef(infoRef); err == nil {
			newTrailer.Set("Info", newInfo)
		}
	}

	if ov.MarkSigned {
		if catalog, ok := c.deref(newRoot).(core.Dict); ok {
			catalog.Set(SignedMarker, core.Bool(true))
		}
	}

	page, err := findPage(c, newRoot, ov.Page)
	if err != nil {
		return nil, err
	}

	contentRef := c.allocate(&core.Stream{Dict: core.Dict{}, Data: ov.Content})
	appendContents(page, contentRef)

	if err := a.registerResources(c, page, ov); err != nil {
		return nil, err
	}

	return writeDocument(c.objects, newTrailer)
}

// ApplySequential stamps each overlay in order, re-parsing the document
// between applications so every overlay operates on a well-formed file.
func (a *Assembler) ApplySequential(data []byte, overlays []Overlay) ([]byte, error) {
	out := data
	for i, ov := range overlays {
		r, err := reader.OpenBytes(out)
		if err != nil {
			return nil, fmt.Errorf("reopening document before overlay %d: %w", i, err)
		}
		out, err = a.Apply(r, ov)
		if err != nil {
			return nil, fmt.Errorf("applying overlay %d (page %d): %w", i, ov.Page, err)
		}
	}
	return out, nil
}

// findPage walks the copied page tree to the index-th leaf page and returns
// its dictionary. The dict lives in the copier's object table, so mutating
// it mutates the output document.
func findPage(c *copier, root core.IndirectRef, index int) (core.Dict, error) {
	catalog, ok := c.deref(root).(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary")
	}
	pagesObj := catalog.Get("Pages")
	if pagesObj == nil {
		return nil, fmt.Errorf("catalog has no Pages entry")
	}

	seen := 0
	page, err := walkPages(c, pagesObj, index, &seen)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("page %d beyond tree with %d leaves: %w", index, seen, ErrPageOutOfRange)
	}
	return page, nil
}

func walkPages(c *copier, node core.Object, index int, seen *int) (core.Dict, error) {
	dict, ok := c.deref(node).(core.Dict)
	if !ok {
		return nil, fmt.Errorf("page tree node is not a dictionary")
	}

	nodeType, _ := dict.GetName("Type")
	if nodeType == "Page" {
		if *seen == index {
			return dict, nil
		}
		*seen++
		return nil, nil
	}

	kids, ok := c.deref(dict.Get("Kids")).(core.Array)
	if !ok {
		return nil, fmt.Errorf("page tree node has no Kids array")
	}
	for _, kid := range kids {
		page, err := walkPages(c, kid, index, seen)
		if err != nil || page != nil {
			return page, err
		}
	}
	return nil, nil
}

// appendContents adds a content stream reference after the page's existing
// content. Contents may be absent, a single stream reference, or an array;
// the result is always a direct array on the page.
func appendContents(page core.Dict, contentRef core.IndirectRef) {
	existing := page.Get("Contents")
	switch v := existing.(type) {
	case nil:
		page.Set("Contents", contentRef)
	case core.Array:
		page.Set("Contents", append(append(core.Array{}, v...), contentRef))
	default:
		page.Set("Contents", core.Array{v, contentRef})
	}
}

// registerResources gives the page a direct Resources dict carrying the
// overlay's font and image. Inherited or shared resource dicts are cloned
// one level deep first so sibling pages are untouched.
func (a *Assembler) registerResources(c *copier, page core.Dict, ov Overlay) error {
	res := clonedResources(c, page)

	fontName := ov.FontName
	if fontName == "" {
		fontName = "SigF1"
	}
	boldName := ov.BoldFontName
	if boldName == "" {
		boldName = "SigF2"
	}
	fonts := subDict(c, res, "Font")
	fonts.Set(fontName, c.allocate(standardFont("Helvetica")))
	fonts.Set(boldName, c.allocate(standardFont("Helvetica-Bold")))

	if ov.Image != nil {
		imageName := ov.ImageName
		if imageName == "" {
			imageName = "SigIm1"
		}
		imgDict := make(core.Dict, len(ov.Image.Dict)+1)
		for k, v := range ov.Image.Dict {
			imgDict[k] = v
		}
		if ov.Mask != nil {
			imgDict.Set("SMask", c.allocate(ov.Mask))
		}
		xobjects := subDict(c, res, "XObject")
		xobjects.Set(imageName, c.allocate(&core.Stream{Dict: imgDict, Data: ov.Image.Data}))
	}

	page.Set("Resources", res)
	return nil
}

// standardFont builds a Type1 dict for one of the base-14 fonts
func standardFont(base string) core.Dict {
	return core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name(base),
		"Encoding": core.Name("WinAnsiEncoding"),
	}
}

// clonedResources returns a page-local shallow clone of the page's
// effective resources. Pages without their own entry inherit from the tree;
// the walk up uses the copied graph's Parent links.
func clonedResources(c *copier, page core.Dict) core.Dict {
	node := page
	for node != nil {
		if res, ok := c.deref(node.Get("Resources")).(core.Dict); ok {
			cloned := make(core.Dict, len(res))
			for k, v := range res {
				cloned[k] = v
			}
			return cloned
		}
		node, _ = c.deref(node.Get("Parent")).(core.Dict)
	}
	return core.Dict{}
}

// subDict returns a page-local clone of the named resource sub-dict,
// installing it in res. The sub-dict may have been shared or indirect
// before cloning.
func subDict(c *copier, res core.Dict, key string) core.Dict {
	cloned := core.Dict{}
	if existing, ok := c.deref(res.Get(key)).(core.Dict); ok {
		for k, v := range existing {
			cloned[k] = v
		}
	}
	res.Set(key, cloned)
	return cloned
}
