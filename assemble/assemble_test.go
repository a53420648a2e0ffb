package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tsawler/sigil/core"
	"github.com/tsawler/sigil/reader"
)

// buildPDF assembles a valid single-xref PDF from numbered object bodies,
// computing offsets so fixtures do not hardcode them.
func buildPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)

	return buf.Bytes()
}

func twoPagePDF() []byte {
	content := "BT /F1 12 Tf 72 700 Td (Hello) Tj ET"
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 6 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 6 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	})
}

func mustOpen(t *testing.T, data []byte) *reader.Reader {
	t.Helper()
	r, err := reader.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	return r
}

func overlayOps() []byte {
	return []byte("q\n1 0 0 RG\n10 10 100 40 re\nS\nBT\n/SigF1 7 Tf\n12 20 Td\n(signed) Tj\nET\nQ\n")
}

func TestApplyRoundTrips(t *testing.T) {
	r := mustOpen(t, twoPagePDF())

	out, err := NewAssembler().Apply(r, Overlay{Page: 0, Content: overlayOps()})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("%PDF-1.7\n")) {
		t.Error("output missing header")
	}
	if !bytes.HasSuffix(out, []byte("%%EOF\n")) {
		t.Error("output missing trailer terminator")
	}

	stamped := mustOpen(t, out)
	count, err := stamped.PageCount()
	if err != nil {
		t.Fatalf("PageCount on output: %v", err)
	}
	if count != 2 {
		t.Errorf("page count = %d, want 2", count)
	}

	// The stamped page must carry both the original and the overlay content
	page, err := stamped.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	contents, err := page.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("stamped page has %d content streams, want 2", len(contents))
	}
	last, ok := contents[1].(*core.Stream)
	if !ok {
		t.Fatalf("second content entry is %T, want stream", contents[1])
	}
	if !bytes.Contains(last.Data, []byte("(signed) Tj")) {
		t.Error("overlay operations missing from appended stream")
	}
}

func TestApplyRegistersFont(t *testing.T) {
	r := mustOpen(t, twoPagePDF())
	out, err := NewAssembler().Apply(r, Overlay{Page: 0, Content: overlayOps()})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	stamped := mustOpen(t, out)
	page, err := stamped.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	res, err := page.Resources()
	if err != nil {
		t.Fatalf("Resources: %v", err)
	}
	fonts, ok := res.GetDict("Font")
	if !ok {
		t.Fatal("stamped page has no Font resources")
	}
	if !fonts.Has("SigF1") {
		t.Errorf("font resources %v missing SigF1", fonts.Keys())
	}
	if !fonts.Has("F1") {
		t.Error("original F1 font lost during resource cloning")
	}
}

func TestApplyRegistersImage(t *testing.T) {
	img := &core.Stream{
		Dict: core.Dict{
			"Type":             core.Name("XObject"),
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(2),
			"Height":           core.Int(1),
			"ColorSpace":       core.Name("DeviceRGB"),
			"BitsPerComponent": core.Int(8),
		},
		Data: []byte{255, 0, 0, 0, 255, 0},
	}
	mask := &core.Stream{
		Dict: core.Dict{
			"Type":             core.Name("XObject"),
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(2),
			"Height":           core.Int(1),
			"ColorSpace":       core.Name("DeviceGray"),
			"BitsPerComponent": core.Int(8),
		},
		Data: []byte{255, 128},
	}

	r := mustOpen(t, twoPagePDF())
	out, err := NewAssembler().Apply(r, Overlay{
		Page: 1, Content: []byte("q\n/SigIm1 Do\nQ\n"), Image: img, Mask: mask,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	stamped := mustOpen(t, out)
	page, err := stamped.GetPage(1)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	res, err := page.Resources()
	if err != nil {
		t.Fatalf("Resources: %v", err)
	}
	xobjects, ok := res.GetDict("XObject")
	if !ok {
		t.Fatal("stamped page has no XObject resources")
	}
	imgObj := xobjects.Get("SigIm1")
	ref, ok := imgObj.(core.IndirectRef)
	if !ok {
		t.Fatalf("SigIm1 is %T, want indirect reference", imgObj)
	}
	resolved, err := stamped.ResolveReference(ref)
	if err != nil {
		t.Fatalf("resolving image: %v", err)
	}
	stream, ok := resolved.(*core.Stream)
	if !ok {
		t.Fatalf("image resolved to %T", resolved)
	}
	if !stream.Dict.Has("SMask") {
		t.Error("image dictionary missing SMask wiring")
	}
	if !bytes.Equal(stream.Data, img.Data) {
		t.Error("image samples corrupted in round trip")
	}
}

func TestApplyPageOutOfRange(t *testing.T) {
	r := mustOpen(t, twoPagePDF())
	for _, page := range []int{-1, 2, 99} {
		_, err := NewAssembler().Apply(r, Overlay{Page: page, Content: overlayOps()})
		if !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("page %d: expected ErrPageOutOfRange, got %v", page, err)
		}
	}
}

func TestApplySequential(t *testing.T) {
	overlays := []Overlay{
		{Page: 0, Content: []byte("q\nBT /SigF1 7 Tf 10 20 Td (first) Tj ET\nQ\n")},
		{Page: 1, Content: []byte("q\nBT /SigF1 7 Tf 10 20 Td (second) Tj ET\nQ\n")},
	}

	out, err := NewAssembler().ApplySequential(twoPagePDF(), overlays)
	if err != nil {
		t.Fatalf("ApplySequential: %v", err)
	}

	stamped := mustOpen(t, out)
	for i, want := range []string{"(first) Tj", "(second) Tj"} {
		page, err := stamped.GetPage(i)
		if err != nil {
			t.Fatalf("GetPage %d: %v", i, err)
		}
		contents, err := page.Contents()
		if err != nil {
			t.Fatalf("Contents %d: %v", i, err)
		}
		var all bytes.Buffer
		for _, obj := range contents {
			if s, ok := obj.(*core.Stream); ok {
				data, err := s.Decode()
				if err != nil {
					t.Fatalf("decoding content: %v", err)
				}
				all.Write(data)
			}
		}
		if !strings.Contains(all.String(), want) {
			t.Errorf("page %d content missing %q", i, want)
		}
	}
}

func TestApplySequentialFailsFast(t *testing.T) {
	overlays := []Overlay{
		{Page: 0, Content: overlayOps()},
		{Page: 7, Content: overlayOps()},
	}
	_, err := NewAssembler().ApplySequential(twoPagePDF(), overlays)
	if !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange, got %v", err)
	}
}

func TestWriteDocumentXref(t *testing.T) {
	objects := map[int]core.Object{
		1: core.Dict{"Type": core.Name("Catalog"), "Pages": core.IndirectRef{Number: 2}},
		2: core.Dict{
			"Type":     core.Name("Pages"),
			"Kids":     core.Array{core.IndirectRef{Number: 3}},
			"Count":    core.Int(1),
			"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
		},
		3: core.Dict{"Type": core.Name("Page"), "Parent": core.IndirectRef{Number: 2}},
	}

	out, err := writeDocument(objects, core.Dict{"Root": core.IndirectRef{Number: 1}})
	if err != nil {
		t.Fatalf("writeDocument: %v", err)
	}

	r := mustOpen(t, out)
	count, err := r.PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if count != 1 {
		t.Errorf("page count = %d, want 1", count)
	}
	catalog, err := r.GetCatalog()
	if err != nil {
		t.Fatalf("GetCatalog: %v", err)
	}
	if typ, _ := catalog.GetName("Type"); typ != "Catalog" {
		t.Errorf("catalog type = %s", typ)
	}
}
