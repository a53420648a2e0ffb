package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/tsawler/sigil/core"
	"github.com/tsawler/sigil/pages"
	"github.com/tsawler/sigil/text"
)

// ErrParse indicates the document container is unreadable: bad header,
// broken xref, or an empty page tree. Errors returned by this package wrap
// ErrParse so callers can distinguish a corrupt document from an expected
// outcome like a missing anchor keyword.
var ErrParse = errors.New("document parse error")

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader represents a PDF document reader. The source may be a file on disk
// or an in-memory buffer; the signing pipeline re-parses intermediate
// buffers between merges, so both forms go through the same code.
type Reader struct {
	src         io.ReadSeeker
	closer      io.Closer // non-nil when the reader owns the source
	xrefTable   *core.XRefTable
	trailer     core.Dict
	version     PDFVersion
	objCache    map[int]core.Object        // Cache for loaded objects
	objStmCache map[int]*core.ObjectStream // Cache for loaded object streams
	size        int64
	pageTree    *pages.PageTree // Cached page tree
}

// Ensure Reader implements pages.ObjectResolver
var _ pages.ObjectResolver = (*Reader)(nil)

// NewReader creates a reader over an open seekable source
func NewReader(src io.ReadSeeker) (*Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to measure source: %v", ErrParse, err)
	}

	reader := &Reader{
		src:         src,
		objCache:    make(map[int]core.Object),
		objStmCache: make(map[int]*core.ObjectStream),
		size:        size,
	}

	version, err := reader.parseHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	reader.version = version

	xrefTable, err := reader.loadXRef()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	reader.xrefTable = xrefTable
	reader.trailer = xrefTable.Trailer

	return reader, nil
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.closer = file

	return reader, nil
}

// OpenBytes parses a PDF held in memory. The reader does not copy data;
// the caller must not mutate the slice while the reader is in use.
func OpenBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data))
}

// Close releases the underlying file, if the reader owns one
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// parseHeader parses the PDF header (%PDF-x.y)
func (r *Reader) parseHeader() (PDFVersion, error) {
	_, err := r.src.Seek(0, io.SeekStart)
	if err != nil {
		return PDFVersion{}, fmt.Errorf("failed to seek to start: %w", err)
	}

	header := make([]byte, 8)
	n, err := r.src.Read(header)
	if err != nil {
		return PDFVersion{}, fmt.Errorf("failed to read header: %w", err)
	}
	if n < 8 {
		return PDFVersion{}, fmt.Errorf("header too short: %d bytes", n)
	}

	headerStr := string(header)
	if !strings.HasPrefix(headerStr, "%PDF-") {
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %s", headerStr)
	}

	versionStr := headerStr[5:]
	re := regexp.MustCompile(`(\d+)\.(\d+)`)
	matches := re.FindStringSubmatch(versionStr)
	if len(matches) < 3 {
		return PDFVersion{}, fmt.Errorf("invalid version format: %s", versionStr)
	}

	var major, minor int
	fmt.Sscanf(matches[1], "%d", &major)
	fmt.Sscanf(matches[2], "%d", &minor)

	return PDFVersion{Major: major, Minor: minor}, nil
}

// loadXRef loads the cross-reference table
func (r *Reader) loadXRef() (*core.XRefTable, error) {
	xrefParser := core.NewXRefParser(r.src)
	table, err := xrefParser.ParseXRefFromEOF()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref: %w", err)
	}

	// Handle incremental updates if present
	if table.Trailer.Get("Prev") != nil {
		tables, err := xrefParser.ParseAllXRefs()
		if err != nil {
			return nil, fmt.Errorf("failed to parse all xrefs: %w", err)
		}
		table = core.MergeXRefTables(tables...)
	}

	return table, nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// GetObject loads an object by its number
// Uses caching to avoid re-reading objects
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xrefTable.Get(objNum)
	if !ok {
		return nil, fmt.Errorf("object %d not found in xref table", objNum)
	}

	if !entry.InUse {
		return nil, fmt.Errorf("object %d is not in use", objNum)
	}

	// Compressed entries live inside an object stream (PDF 1.5+)
	if entry.Type == core.XRefEntryCompressed {
		obj, err := r.getCompressedObject(objNum, int(entry.Offset))
		if err != nil {
			return nil, err
		}
		r.objCache[objNum] = obj
		return obj, nil
	}

	_, err := r.src.Seek(entry.Offset, io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to object %d: %w", objNum, err)
	}

	parser := core.NewParser(r.src)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}

	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}

	r.objCache[objNum] = indObj.Object

	return indObj.Object, nil
}

// getCompressedObject extracts an object stored inside an object stream.
// Object streams are decoded once and cached by their object number.
func (r *Reader) getCompressedObject(objNum, containerNum int) (core.Object, error) {
	objStm, ok := r.objStmCache[containerNum]
	if !ok {
		containerObj, err := r.GetObject(containerNum)
		if err != nil {
			return nil, fmt.Errorf("failed to load object stream %d: %w", containerNum, err)
		}

		stream, isStream := containerObj.(*core.Stream)
		if !isStream {
			return nil, fmt.Errorf("object %d is not an object stream: %T", containerNum, containerObj)
		}

		objStm, err = core.NewObjectStream(stream)
		if err != nil {
			return nil, fmt.Errorf("invalid object stream %d: %w", containerNum, err)
		}
		r.objStmCache[containerNum] = objStm
	}

	obj, _, err := objStm.GetObjectByNumber(objNum)
	if err != nil {
		return nil, fmt.Errorf("failed to extract object %d from object stream %d: %w", objNum, containerNum, err)
	}
	return obj, nil
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	rootRef := r.trailer.Get("Root")
	if rootRef == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}

	ref, ok := rootRef.(core.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("invalid /Root type: %T", rootRef)
	}

	obj, err := r.ResolveReference(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %T", obj)
	}

	return catalog, nil
}

// GetInfo returns the document info dictionary (metadata)
func (r *Reader) GetInfo() (core.Dict, error) {
	infoRef := r.trailer.Get("Info")
	if infoRef == nil {
		return nil, nil // Info is optional
	}

	ref, ok := infoRef.(core.IndirectRef)
	if !ok {
		return nil, fmt.Errorf("invalid /Info type: %T", infoRef)
	}

	obj, err := r.ResolveReference(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}

	info, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("info is not a dictionary: %T", obj)
	}

	return info, nil
}

// NumObjects returns the total number of objects in the PDF
func (r *Reader) NumObjects() int {
	sizeObj := r.trailer.Get("Size")
	if sizeObj == nil {
		return 0
	}

	size, ok := sizeObj.(core.Int)
	if !ok {
		return 0
	}

	return int(size)
}

// Size returns the size of the source in bytes
func (r *Reader) Size() int64 {
	return r.size
}

// XRefTable returns the cross-reference table
// Exposed for debugging/inspection
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xrefTable
}

// ClearCache clears the object cache
// Useful for freeing memory when processing large documents
func (r *Reader) ClearCache() {
	r.objCache = make(map[int]core.Object)
	r.objStmCache = make(map[int]*core.ObjectStream)
}

// CacheSize returns the number of cached objects
func (r *Reader) CacheSize() int {
	return len(r.objCache)
}

// ObjectStreamCacheSize returns the number of cached object streams
func (r *Reader) ObjectStreamCacheSize() int {
	return len(r.objStmCache)
}

// Resolve resolves an object if it's an indirect reference, otherwise returns it as-is
// Implements pages.ObjectResolver interface
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return r.ResolveReference(ref)
	}
	return obj, nil
}

// ResolveDeep recursively resolves all indirect references in an object
// Implements pages.ObjectResolver interface
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}

	switch v := resolved.(type) {
	case core.Array:
		result := make(core.Array, len(v))
		for i, elem := range v {
			resolvedElem, err := r.ResolveDeep(elem)
			if err != nil {
				return nil, err
			}
			result[i] = resolvedElem
		}
		return result, nil

	case core.Dict:
		result := make(core.Dict)
		for key, val := range v {
			resolvedVal, err := r.ResolveDeep(val)
			if err != nil {
				return nil, err
			}
			result[key] = resolvedVal
		}
		return result, nil

	default:
		return resolved, nil
	}
}

// PageCount returns the number of pages in the document
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.pageTree.Count()
}

// GetPage returns the page at the given index (0-based)
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

// ensurePageTree loads the page tree if not already loaded
func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}

	catalog, err := r.GetCatalog()
	if err != nil {
		return fmt.Errorf("failed to get catalog: %w", err)
	}

	pagesRef := catalog.Get("Pages")
	if pagesRef == nil {
		return fmt.Errorf("%w: catalog missing /Pages entry", ErrParse)
	}

	pagesObj, err := r.Resolve(pagesRef)
	if err != nil {
		return fmt.Errorf("failed to resolve pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return fmt.Errorf("%w: pages is not a dictionary: %T", ErrParse, pagesObj)
	}

	r.pageTree = pages.NewPageTree(pagesDict, r)
	return nil
}

// ExtractTextFragments extracts text fragments from a page
// This is a convenience method that handles content stream decoding and font registration
func (r *Reader) ExtractTextFragments(page *pages.Page) ([]text.TextFragment, error) {
	data, err := pageContentBytes(page)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	extractor := text.NewExtractor()

	resolverFunc := func(ref core.IndirectRef) (core.Object, error) {
		return r.ResolveReference(ref)
	}
	if err := extractor.RegisterFontsFromPage(page, resolverFunc); err != nil {
		// Non-fatal - continue with default font handling
	}

	fragments, err := extractor.ExtractFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	return fragments, nil
}

// ExtractText extracts the text of a page as a single string, with
// fragments joined in content-stream order
func (r *Reader) ExtractText(page *pages.Page) (string, error) {
	fragments, err := r.ExtractTextFragments(page)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(fragments))
	for i, frag := range fragments {
		parts[i] = frag.Text
	}
	return strings.Join(parts, " "), nil
}

// pageContentBytes decodes and concatenates a page's content streams
func pageContentBytes(page *pages.Page) ([]byte, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}
	if contents == nil {
		return nil, nil // Empty page
	}

	var allData []byte
	for _, contentObj := range contents {
		stream, ok := contentObj.(*core.Stream)
		if !ok {
			continue
		}
		data, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		allData = append(allData, data...)
	}

	return allData, nil
}
