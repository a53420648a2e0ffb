package sigil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/sigil/model"
)

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

func contractPDF(keyword string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 620 Td (%s) Tj ET", keyword)
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	})
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("no-such-file.pdf").Detect()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	_, _, err = Open("no-such-file.pdf").Signer("Jane").Sign()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDetect(t *testing.T) {
	detection, err := FromBytes(contractPDF("Signature:")).Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !detection.Found {
		t.Fatal("expected detection")
	}
	if len(detection.Positions) != 1 {
		t.Fatalf("got %d placements, want 1", len(detection.Positions))
	}
	pl := detection.Positions[0]
	if pl.Keyword == nil || *pl.Keyword != "signature:" {
		t.Errorf("keyword = %v, want signature:", pl.Keyword)
	}
}

func TestSign(t *testing.T) {
	signed, detection, err := FromBytes(contractPDF("Signature:")).
		Signer("Jane Roe").
		Sign()
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !detection.Found {
		t.Fatal("expected detection")
	}
	if !strings.Contains(string(signed), "(Jane Roe) Tj") {
		t.Error("attestation text missing from signed document")
	}

	// A signed document refuses a second pass
	_, _, err = FromBytes(signed).Signer("Jane Roe").Sign()
	if err == nil {
		t.Fatal("expected rejection of an already signed document")
	}
}

func TestSignRequiresSigner(t *testing.T) {
	_, _, err := FromBytes(contractPDF("Signature:")).Sign()
	if err == nil {
		t.Fatal("expected validation error without a signer name")
	}
}

func TestSignF2F(t *testing.T) {
	signed, detection, err := FromBytes(contractPDF("no keywords here")).
		Signer("Dr. A. Sharma").
		DocumentID("consent-9").
		IP("10.0.0.7").
		F2F().
		Sign()
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(detection.Positions) != 1 {
		t.Fatalf("got %d placements, want 1", len(detection.Positions))
	}
	if !strings.Contains(string(signed), "(Electronic Signature) Tj") {
		t.Error("audit box title missing")
	}
	if !strings.Contains(string(signed), "(Document ID:) Tj") {
		t.Error("document ID label missing from audit box")
	}
	if !strings.Contains(string(signed), "(consent-9) Tj") {
		t.Error("document ID missing from audit box")
	}
}

func TestSignWithArtwork(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 120; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if y == 24 {
				c = color.NRGBA{R: 20, G: 20, B: 60, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	signed, _, err := FromBytes(contractPDF("Signature:")).
		Signer("Jane Roe").
		ArtworkBytes(buf.Bytes()).
		Sign()
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !strings.Contains(string(signed), "/SigIm1 Do") {
		t.Error("image draw missing from signed document")
	}
}

func TestSignTo(t *testing.T) {
	out := filepath.Join(t.TempDir(), "signed.pdf")
	_, err := FromBytes(contractPDF("Signature:")).
		Signer("Jane Roe").
		SignTo(out)
	if err != nil {
		t.Fatalf("SignTo: %v", err)
	}

	info, err := Open(out).Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.PageCount != 1 {
		t.Errorf("page count = %d, want 1", info.PageCount)
	}
	if !info.Signed {
		t.Error("signed marker not reported")
	}
}

func TestInfoUnsigned(t *testing.T) {
	info, err := FromBytes(contractPDF("Signature:")).Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Signed {
		t.Error("unsigned document reported as signed")
	}
	if info.PageCount != 1 {
		t.Errorf("page count = %d, want 1", info.PageCount)
	}
}

func TestKeywords(t *testing.T) {
	detection, err := FromBytes(contractPDF("Countersigned here")).
		Keywords(`countersigned`).
		Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	pl := detection.Positions[0]
	if pl.Keyword == nil || *pl.Keyword != "countersigned" {
		t.Errorf("keyword = %v, want countersigned", pl.Keyword)
	}
}

type fakeRecognizer struct {
	text  string
	calls int
}

func (f *fakeRecognizer) RecognizeImage(data []byte) (string, error) {
	f.calls++
	if !bytes.HasPrefix(data, []byte("\xff\xd8")) {
		return "", fmt.Errorf("not a JPEG: %q", data[:2])
	}
	return f.text, nil
}

func scannedPDF() []byte {
	jpeg := "\xff\xd8scan-bytes\xff\xd9"
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im0 4 0 R >> >> >>",
		fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width 8 /Height 8 "+
			"/ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n%s\nendstream",
			len(jpeg), jpeg),
	})
}

func TestAt(t *testing.T) {
	want := model.Placement{Page: 0, X: 90, Y: 480, Width: 120, Height: 40}
	signed, detection, err := FromBytes(contractPDF("No keywords on this page")).
		Signer("Jane Roe").
		At(want).
		Sign()
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(detection.Positions) != 1 || detection.Positions[0] != want {
		t.Errorf("positions = %+v, want [%+v]", detection.Positions, want)
	}
	if !strings.Contains(string(signed), "(Jane Roe) Tj") {
		t.Error("attestation text missing from signed output")
	}
}

func TestWithRecognizer(t *testing.T) {
	rec := &fakeRecognizer{text: "Authorized Signature: ________"}
	detection, err := FromBytes(scannedPDF()).
		WithRecognizer(rec).
		Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if rec.calls == 0 {
		t.Fatal("recognizer was never consulted")
	}
	if len(detection.Positions) != 1 {
		t.Fatalf("got %d placements, want 1", len(detection.Positions))
	}
	pl := detection.Positions[0]
	if pl.Method != "ocr_text" {
		t.Errorf("method = %q, want ocr_text", pl.Method)
	}
	if pl.Keyword == nil || !strings.Contains(*pl.Keyword, "signature") {
		t.Errorf("keyword = %v, want a signature match", pl.Keyword)
	}
}

func TestMust(t *testing.T) {
	detection := Must(FromBytes(contractPDF("Signature:")).Detect())
	if !detection.Found {
		t.Error("expected detection")
	}

	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(Open("no-such-file.pdf").Detect())
}
