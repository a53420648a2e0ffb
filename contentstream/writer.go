package contentstream

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Writer builds a content stream by appending drawing operations. It is the
// emit-side counterpart of Parser: overlays are composed through it and the
// result is appended to a page's Contents.
//
// All coordinates are in the page's bottom-left origin user space.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty content stream writer
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated content stream
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the current length of the stream
func (w *Writer) Len() int {
	return w.buf.Len()
}

func (w *Writer) op(operator string, operands ...float64) {
	for _, v := range operands {
		w.buf.WriteString(fmtNum(v))
		w.buf.WriteByte(' ')
	}
	w.buf.WriteString(operator)
	w.buf.WriteByte('\n')
}

// fmtNum renders a number with enough precision for page coordinates and
// without exponent notation.
func fmtNum(f float64) string {
	s := strconv.FormatFloat(f, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// SaveState emits q
func (w *Writer) SaveState() {
	w.op("q")
}

// RestoreState emits Q
func (w *Writer) RestoreState() {
	w.op("Q")
}

// Concat emits a cm transformation
func (w *Writer) Concat(a, b, c, d, e, f float64) {
	w.op("cm", a, b, c, d, e, f)
}

// SetLineWidth emits w
func (w *Writer) SetLineWidth(width float64) {
	w.op("w", width)
}

// SetFillRGB emits rg with components in [0, 1]
func (w *Writer) SetFillRGB(r, g, b float64) {
	w.op("rg", r, g, b)
}

// SetStrokeRGB emits RG with components in [0, 1]
func (w *Writer) SetStrokeRGB(r, g, b float64) {
	w.op("RG", r, g, b)
}

// Rectangle emits re with the box's bottom-left corner and size
func (w *Writer) Rectangle(x, y, width, height float64) {
	w.op("re", x, y, width, height)
}

// Fill emits f, filling the current path
func (w *Writer) Fill() {
	w.op("f")
}

// Stroke emits S, stroking the current path
func (w *Writer) Stroke() {
	w.op("S")
}

// FillStroke emits B, filling then stroking the current path
func (w *Writer) FillStroke() {
	w.op("B")
}

// DrawImage places the named image XObject at (x, y) scaled to
// width × height. Image space is the unit square, so the CTM carries the
// full size.
func (w *Writer) DrawImage(name string, x, y, width, height float64) {
	w.SaveState()
	w.Concat(width, 0, 0, height, x, y)
	w.buf.WriteString("/" + name + " Do\n")
	w.RestoreState()
}

// BeginText emits BT
func (w *Writer) BeginText() {
	w.op("BT")
}

// EndText emits ET
func (w *Writer) EndText() {
	w.op("ET")
}

// SetFont emits Tf for the named font resource at the given size
func (w *Writer) SetFont(name string, size float64) {
	w.buf.WriteString(fmt.Sprintf("/%s %s Tf\n", name, fmtNum(size)))
}

// SetTextPosition emits Td relative to the current text line origin.
// Inside a fresh BT block this is an absolute position.
func (w *Writer) SetTextPosition(x, y float64) {
	w.op("Td", x, y)
}

// ShowText emits Tj with a properly escaped literal string
func (w *Writer) ShowText(text string) {
	w.buf.WriteByte('(')
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '(', ')', '\\':
			w.buf.WriteByte('\\')
			w.buf.WriteByte(c)
		case '\n':
			w.buf.WriteString(`\n`)
		case '\r':
			w.buf.WriteString(`\r`)
		default:
			w.buf.WriteByte(c)
		}
	}
	w.buf.WriteString(") Tj\n")
}

// Text draws a single line of text at (x, y) in one BT/ET block
func (w *Writer) Text(fontName string, size, x, y float64, text string) {
	w.BeginText()
	w.SetFont(fontName, size)
	w.SetTextPosition(x, y)
	w.ShowText(text)
	w.EndText()
}
