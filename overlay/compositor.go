package overlay

import (
	"github.com/tsawler/sigil/contentstream"
	"github.com/tsawler/sigil/model"
)

// Layout constants, in points
const (
	attestFontSize = 7.0
	attestLeading  = 9.0
	attestReserve  = 30.0 // room kept under the image for the three lines

	auditTitleSize = 10.0
	auditLabelSize = 8.0
	auditValueSize = 7.0
	auditLeading   = 11.0
	auditPad       = 8.0
	auditTitleRow  = 18.0
	auditSigGap    = 8.0
	auditGlyphSlot = 50.0
	auditGlyphGap  = 10.0
	auditBorder    = 1.5
	auditInfoLines = 5
	auditIDMaxLen  = 36
)

// auditChrome is the audit box height spent on everything except the
// signature row: title, five metadata lines, and padding.
const auditChrome = auditTitleRow + auditSigGap +
	auditInfoLines*auditLeading + 8 + 2*auditPad

// Audit box colors, 0-1 component values. The fill is cornsilk with a tan
// border; text is dark gray with muted labels and blue identity values.
var (
	auditFill   = [3]float64{1.0, 0.973, 0.863}
	auditAccent = [3]float64{0.831, 0.647, 0.455}
	auditDark   = [3]float64{0.2, 0.2, 0.2}
	auditGray   = [3]float64{0.4, 0.4, 0.4}
	auditBlue   = [3]float64{0.0, 0.4, 0.8}
)

// AuditBoxSize returns the audit box footprint for a signature slot of the
// given size: a text column wide enough for the metadata plus the stamp
// glyph column, and vertical room for the title, the signature row, and
// five metadata lines.
func AuditBoxSize(sigW, sigH float64) (w, h float64) {
	textArea := sigW + 40
	if textArea < 220 {
		textArea = 220
	}
	return textArea + auditGlyphSlot + auditGlyphGap, sigH + auditChrome
}

// Compositor renders placements into content stream operations. FontName,
// BoldFontName, and ImageName are the resource names the assembler
// registers on the page; the defaults match what the assembler uses.
type Compositor struct {
	FontName     string
	BoldFontName string
	ImageName    string
}

// NewCompositor returns a compositor with the default resource names
func NewCompositor() *Compositor {
	return &Compositor{FontName: "SigF1", BoldFontName: "SigF2", ImageName: "SigIm1"}
}

// renderY converts a placement's top-left-origin position to the PDF's
// bottom-left origin and clamps it so the box stays on the page.
func renderY(pl model.Placement, pageH float64) float64 {
	y := pageH - pl.Y - pl.Height
	if y < 0 {
		y = 0
	}
	if y > pageH-pl.Height {
		y = pageH - pl.Height
	}
	return y
}

// Render produces the overlay content for one placement. img may be nil
// for text-only signing. The returned operations are bracketed in q/Q so
// graphics state never leaks into the page's own content.
func (c *Compositor) Render(pl model.Placement, mode model.RenderMode, img *ImageRef, info model.AttestationInfo, pageW, pageH float64) []byte {
	pl = pl.ClampTo(pageW, pageH)

	w := contentstream.NewWriter()
	w.SaveState()

	switch mode {
	case model.RenderF2FAudit:
		c.renderAudit(w, pl, img, info, pageH)
	default:
		c.renderStandard(w, pl, img, info, pageH)
	}

	w.RestoreState()
	return w.Bytes()
}

// renderStandard fits the signature image to the full placement rectangle
// and draws the three attestation lines directly below it. The box bottom
// is lifted when needed so the text stays on the page.
func (c *Compositor) renderStandard(w *contentstream.Writer, pl model.Placement, img *ImageRef, info model.AttestationInfo, pageH float64) {
	x := pl.X
	y := renderY(pl, pageH)
	if info.SignerName != "" && y < attestReserve {
		y = attestReserve
	}

	if img != nil {
		dx, drawW, drawH := FitWithin(img.Width, img.Height, pl.Width, pl.Height)
		w.DrawImage(c.ImageName, x+dx, y, drawW, drawH)
	}

	if info.SignerName == "" {
		return
	}
	w.SetFillRGB(0, 0, 0)
	lineY := y - attestLeading
	w.Text(c.FontName, attestFontSize, x, lineY, "Digitally signed by")
	lineY -= attestLeading
	w.Text(c.BoldFontName, attestFontSize, x, lineY, info.SignerName)
	lineY -= attestLeading
	if info.Timestamp != "" {
		w.Text(c.FontName, attestFontSize, x, lineY, "Date: "+info.Timestamp)
	}
}

// renderAudit draws the face-to-face audit box: a filled, bordered panel
// with a bold title, the signature image, five metadata lines, and the
// document stamp glyph centered in the right column.
func (c *Compositor) renderAudit(w *contentstream.Writer, pl model.Placement, img *ImageRef, info model.AttestationInfo, pageH float64) {
	x := pl.X
	y := renderY(pl, pageH)

	w.SetFillRGB(auditFill[0], auditFill[1], auditFill[2])
	w.SetStrokeRGB(auditAccent[0], auditAccent[1], auditAccent[2])
	w.SetLineWidth(auditBorder)
	w.Rectangle(x, y, pl.Width, pl.Height)
	w.FillStroke()

	textX := x + auditPad
	titleY := y + pl.Height - auditPad - auditTitleSize
	w.SetFillRGB(auditDark[0], auditDark[1], auditDark[2])
	w.Text(c.BoldFontName, auditTitleSize, textX, titleY, "Electronic Signature")

	// Signature row between the title and the metadata lines
	sigRowH := pl.Height - auditChrome
	sigBottom := y + pl.Height - auditPad - auditTitleRow - auditSigGap - sigRowH
	if img != nil && sigRowH > 0 {
		slotW := pl.Width - auditGlyphSlot - auditGlyphGap - 2*auditPad
		_, drawW, drawH := FitWithin(img.Width, img.Height, slotW, sigRowH)
		w.DrawImage(c.ImageName, textX, sigBottom+(sigRowH-drawH)/2, drawW, drawH)
	}

	// Stamp glyph centered vertically in the right column
	glyphX := x + pl.Width - auditGlyphSlot - auditGlyphGap
	glyphY := y + (pl.Height-auditGlyphSlot)/2
	w.SetLineWidth(0.5)
	w.SetStrokeRGB(auditDark[0], auditDark[1], auditDark[2])
	w.Rectangle(glyphX, glyphY, auditGlyphSlot, auditGlyphSlot)
	w.Stroke()
	w.SetFillRGB(auditDark[0], auditDark[1], auditDark[2])
	drawGlyph(w, info.DocumentID, glyphX, glyphY, auditGlyphSlot)

	infoY := sigBottom - 12

	w.SetFillRGB(auditGray[0], auditGray[1], auditGray[2])
	w.Text(c.FontName, auditLabelSize, textX, infoY, "Document ID:")
	infoY -= auditLeading

	id := info.DocumentID
	if len(id) > auditIDMaxLen {
		id = id[:auditIDMaxLen]
	}
	w.SetFillRGB(auditBlue[0], auditBlue[1], auditBlue[2])
	w.Text(c.FontName, auditValueSize, textX, infoY, id)
	infoY -= auditLeading

	ip := info.IPAddress
	if ip == "" {
		ip = "::1"
	}
	w.SetFillRGB(auditGray[0], auditGray[1], auditGray[2])
	w.Text(c.FontName, auditLabelSize, textX, infoY, "IP Address: "+ip)
	infoY -= auditLeading

	w.SetFillRGB(auditDark[0], auditDark[1], auditDark[2])
	w.Text(c.FontName, auditLabelSize, textX, infoY, "Time: "+info.Timestamp)
	infoY -= auditLeading

	// Signer label with the emphasized name continuing on the same line
	name := info.SignerName
	if name == "" {
		name = "Unknown"
	}
	w.BeginText()
	w.SetFont(c.FontName, auditLabelSize)
	w.SetTextPosition(textX, infoY)
	w.ShowText("Signer: ")
	w.SetFillRGB(auditBlue[0], auditBlue[1], auditBlue[2])
	w.SetFont(c.BoldFontName, auditLabelSize)
	w.ShowText(name)
	w.EndText()
}
