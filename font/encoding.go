package font

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Encoding maps single-byte character codes to Unicode runes.
// PDF simple fonts use one of the predefined encodings below, optionally
// customized through a /Differences array.
type Encoding interface {
	// Name returns the PDF name of the encoding
	Name() string

	// Decode maps a single character code to a rune
	Decode(b byte) rune

	// DecodeString decodes a byte sequence to a Unicode string
	DecodeString(data []byte) string
}

// baseEncoding is a table-driven encoding
type baseEncoding struct {
	name  string
	table [256]rune
}

func (e *baseEncoding) Name() string { return e.name }

func (e *baseEncoding) Decode(b byte) rune {
	r := e.table[b]
	if r == 0 {
		return utf8.RuneError
	}
	return r
}

func (e *baseEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		r := e.table[b]
		if r == 0 {
			continue // unmapped code, drop it
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CustomEncoding is a base encoding with per-code overrides, as produced by
// a font dictionary's /Differences array.
type CustomEncoding struct {
	base        Encoding
	differences map[byte]rune
}

func (e *CustomEncoding) Name() string { return e.base.Name() + "+custom" }

func (e *CustomEncoding) Decode(b byte) rune {
	if r, ok := e.differences[b]; ok {
		return r
	}
	return e.base.Decode(b)
}

func (e *CustomEncoding) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		sb.WriteRune(e.Decode(b))
	}
	return sb.String()
}

// NewCustomEncoding creates an encoding that overlays direct rune mappings
// on a base encoding.
func NewCustomEncoding(base Encoding, differences map[byte]rune) *CustomEncoding {
	diff := make(map[byte]rune, len(differences))
	for b, r := range differences {
		diff[b] = r
	}
	return &CustomEncoding{base: base, differences: diff}
}

// NewCustomEncodingFromGlyphs creates an encoding from glyph name overrides,
// the form /Differences arrays actually use. Unknown glyph names are skipped.
func NewCustomEncodingFromGlyphs(base Encoding, differences map[byte]string) *CustomEncoding {
	diff := make(map[byte]rune, len(differences))
	for b, glyph := range differences {
		if r, ok := glyphNameToUnicode[glyph]; ok {
			diff[b] = r
		}
	}
	return &CustomEncoding{base: base, differences: diff}
}

// GetEncoding returns a predefined encoding by its PDF name.
// Unknown names fall back to WinAnsiEncoding, the most common in practice.
func GetEncoding(name string) Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	case "StandardEncoding":
		return StandardEncodingTable
	default:
		return WinAnsiEncoding
	}
}

// DecodeWithEncoding decodes data using the named encoding.
func DecodeWithEncoding(data []byte, encodingName string) string {
	return GetEncoding(encodingName).DecodeString(data)
}

// NormalizeUnicode normalizes a string to NFC so that visually identical
// strings compare equal regardless of how the PDF encoded them.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// DecodeUTF16BE decodes big-endian UTF-16 data (without BOM)
func DecodeUTF16BE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i])<<8|uint16(data[i+1]))
	}
	return string(utf16.Decode(units))
}

// DecodeUTF16LE decodes little-endian UTF-16 data (without BOM)
func DecodeUTF16LE(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		units = append(units, uint16(data[i+1])<<8|uint16(data[i]))
	}
	return string(utf16.Decode(units))
}

// IsValidUTF8 reports whether s is well-formed UTF-8
func IsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// WinAnsiEncoding is Windows code page 1252, the most common simple-font
// encoding in western PDFs.
var WinAnsiEncoding = newWinAnsi()

// MacRomanEncoding is the classic Mac OS Roman encoding
var MacRomanEncoding = newMacRoman()

// PDFDocEncoding is the encoding used for text strings in PDF dictionaries
var PDFDocEncoding = newPDFDoc()

// StandardEncodingTable is Adobe StandardEncoding, the default for Type 1
// fonts that declare no encoding.
var StandardEncodingTable = newStandard()

func asciiRange(table *[256]rune) {
	for i := 0x20; i <= 0x7E; i++ {
		table[i] = rune(i)
	}
}

func latin1High(table *[256]rune) {
	for i := 0xA0; i <= 0xFF; i++ {
		table[i] = rune(i)
	}
}

func newWinAnsi() *baseEncoding {
	e := &baseEncoding{name: "WinAnsiEncoding"}
	asciiRange(&e.table)
	latin1High(&e.table)
	// CP1252 replaces the C1 control block with printable characters
	for b, r := range map[byte]rune{
		0x80: '€', // Euro
		0x82: '‚', 0x83: 'ƒ', 0x84: '„', 0x85: '…',
		0x86: '†', 0x87: '‡', 0x88: 'ˆ', 0x89: '‰',
		0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ', 0x8E: 'Ž',
		0x91: '‘', 0x92: '’', 0x93: '“', 0x94: '”',
		0x95: '•', 0x96: '–', 0x97: '—', 0x98: '˜',
		0x99: '™', 0x9A: 'š', 0x9B: '›', 0x9C: 'œ',
		0x9E: 'ž', 0x9F: 'Ÿ',
	} {
		e.table[b] = r
	}
	return e
}

func newMacRoman() *baseEncoding {
	e := &baseEncoding{name: "MacRomanEncoding"}
	asciiRange(&e.table)
	high := []rune{
		// 0x80
		'Ä', 'Å', 'Ç', 'É', 'Ñ', 'Ö', 'Ü', 'á', 'à', 'â', 'ä', 'ã', 'å', 'ç', 'é', 'è',
		// 0x90
		'ê', 'ë', 'í', 'ì', 'î', 'ï', 'ñ', 'ó', 'ò', 'ô', 'ö', 'õ', 'ú', 'ù', 'û', 'ü',
		// 0xA0
		'†', '°', '¢', '£', '§', '•', '¶', 'ß', '®', '©', '™', '´', '¨', '≠', 'Æ', 'Ø',
		// 0xB0
		'∞', '±', '≤', '≥', '¥', 'µ', '∂', '∑', '∏', 'π', '∫', 'ª', 'º', 'Ω', 'æ', 'ø',
		// 0xC0
		'¿', '¡', '¬', '√', 'ƒ', '≈', '∆', '«', '»', '…', ' ', 'À', 'Ã', 'Õ', 'Œ', 'œ',
		// 0xD0
		'–', '—', '“', '”', '‘', '’', '÷', '◊', 'ÿ', 'Ÿ', '⁄', '€', '‹', '›', 'ﬁ', 'ﬂ',
		// 0xE0
		'‡', '·', '‚', '„', '‰', 'Â', 'Ê', 'Á', 'Ë', 'È', 'Í', 'Î', 'Ï', 'Ì', 'Ó', 'Ô',
		// 0xF0
		'', 'Ò', 'Ú', 'Û', 'Ù', 'ı', 'ˆ', '˜', '¯', '˘', '˙', '˚', '¸', '˝', '˛', 'ˇ',
	}
	for i, r := range high {
		e.table[0x80+i] = r
	}
	return e
}

func newPDFDoc() *baseEncoding {
	e := &baseEncoding{name: "PDFDocEncoding"}
	asciiRange(&e.table)
	latin1High(&e.table)
	for b, r := range map[byte]rune{
		0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
		0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
		0x88: '‹', 0x89: '›', 0x8A: '−', 0x8B: '‰',
		0x8C: '„', 0x8D: '“', 0x8E: '”', 0x8F: '‘',
		0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
		0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
		0x98: 'Ÿ', 0x99: 'Ž', 0x9A: 'ı', 0x9B: 'ł',
		0x9C: 'œ', 0x9D: 'š', 0x9E: 'ž',
		0xA0: '€', // Euro, unlike Latin-1
	} {
		e.table[b] = r
	}
	return e
}

func newStandard() *baseEncoding {
	e := &baseEncoding{name: "StandardEncoding"}
	asciiRange(&e.table)
	for b, r := range map[byte]rune{
		0xA1: '¡', 0xA2: '¢', 0xA3: '£', 0xA4: '⁄',
		0xA5: '¥', 0xA6: 'ƒ', 0xA7: '§', 0xA8: '¤',
		0xA9: '\'', 0xAA: '“', 0xAB: '«', 0xAC: '‹',
		0xAD: '›', 0xAE: 'ﬁ', 0xAF: 'ﬂ',
		0xB1: '–', 0xB2: '†', 0xB3: '‡', 0xB4: '·',
		0xB6: '¶', 0xB7: '•', 0xB8: '‚', 0xB9: '„',
		0xBA: '”', 0xBB: '»', 0xBC: '…', 0xBD: '‰',
		0xBF: '¿',
		0xC1: '`', 0xC2: '´', 0xC3: 'ˆ', 0xC4: '˜',
		0xC5: '¯', 0xC6: '˘', 0xC7: '˙', 0xC8: '¨',
		0xCA: '˚', 0xCB: '¸', 0xCD: '˝', 0xCE: '˛',
		0xCF: 'ˇ', 0xD0: '—',
		0xE1: 'Æ', 0xE3: 'ª', 0xE8: 'Ł', 0xE9: 'Ø',
		0xEA: 'Œ', 0xEB: 'º',
		0xF1: 'æ', 0xF5: 'ı', 0xF8: 'ł', 0xF9: 'ø',
		0xFA: 'œ', 0xFB: 'ß',
	} {
		e.table[b] = r
	}
	return e
}

// glyphNameToUnicode maps Adobe glyph names to Unicode values. This is the
// subset of the Adobe Glyph List that shows up in practice in /Differences
// arrays: Latin letters, digits, punctuation, and common accented forms.
var glyphNameToUnicode = map[string]rune{
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"A": 'A', "B": 'B', "C": 'C', "D": 'D', "E": 'E', "F": 'F', "G": 'G',
	"H": 'H', "I": 'I', "J": 'J', "K": 'K', "L": 'L', "M": 'M', "N": 'N',
	"O": 'O', "P": 'P', "Q": 'Q', "R": 'R', "S": 'S', "T": 'T', "U": 'U',
	"V": 'V', "W": 'W', "X": 'X', "Y": 'Y', "Z": 'Z',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"a": 'a', "b": 'b', "c": 'c', "d": 'd', "e": 'e', "f": 'f', "g": 'g',
	"h": 'h', "i": 'i', "j": 'j', "k": 'k', "l": 'l', "m": 'm', "n": 'n',
	"o": 'o', "p": 'p', "q": 'q', "r": 'r', "s": 's', "t": 't', "u": 'u',
	"v": 'v', "w": 'w', "x": 'x', "y": 'y', "z": 'z',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',

	"quoteleft": '‘', "quoteright": '’',
	"quotedblleft": '“', "quotedblright": '”',
	"quotesinglbase": '‚', "quotedblbase": '„',
	"guilsinglleft": '‹', "guilsinglright": '›',
	"guillemotleft": '«', "guillemotright": '»',
	"endash": '–', "emdash": '—', "bullet": '•',
	"ellipsis": '…', "dagger": '†', "daggerdbl": '‡',
	"perthousand": '‰', "fraction": '⁄', "minus": '−',
	"Euro": '€', "trademark": '™', "copyright": '©',
	"registered": '®', "degree": '°', "plusminus": '±',
	"section": '§', "paragraph": '¶', "periodcentered": '·',
	"cent": '¢', "sterling": '£', "yen": '¥',
	"currency": '¤', "florin": 'ƒ',
	"exclamdown": '¡', "questiondown": '¿',
	"fi": 'ﬁ', "fl": 'ﬂ',

	"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â', "Atilde": 'Ã',
	"Adieresis": 'Ä', "Aring": 'Å', "AE": 'Æ', "Ccedilla": 'Ç',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î', "Idieresis": 'Ï',
	"Eth": 'Ð', "Ntilde": 'Ñ', "Ograve": 'Ò', "Oacute": 'Ó',
	"Ocircumflex": 'Ô', "Otilde": 'Õ', "Odieresis": 'Ö', "Oslash": 'Ø',
	"Ugrave": 'Ù', "Uacute": 'Ú', "Ucircumflex": 'Û', "Udieresis": 'Ü',
	"Yacute": 'Ý', "Thorn": 'Þ', "germandbls": 'ß',
	"agrave": 'à', "aacute": 'á', "acircumflex": 'â', "atilde": 'ã',
	"adieresis": 'ä', "aring": 'å', "ae": 'æ', "ccedilla": 'ç',
	"egrave": 'è', "eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î', "idieresis": 'ï',
	"eth": 'ð', "ntilde": 'ñ', "ograve": 'ò', "oacute": 'ó',
	"ocircumflex": 'ô', "otilde": 'õ', "odieresis": 'ö', "oslash": 'ø',
	"ugrave": 'ù', "uacute": 'ú', "ucircumflex": 'û', "udieresis": 'ü',
	"yacute": 'ý', "thorn": 'þ', "ydieresis": 'ÿ',
	"OE": 'Œ', "oe": 'œ', "Scaron": 'Š', "scaron": 'š',
	"Ydieresis": 'Ÿ', "Zcaron": 'Ž', "zcaron": 'ž',
	"Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı',
	"circumflex": 'ˆ', "tilde": '˜', "macron": '¯',
	"breve": '˘', "dotaccent": '˙', "ring": '˚',
	"cedilla": '¸', "hungarumlaut": '˝', "ogonek": '˛',
	"caron": 'ˇ', "dieresis": '¨', "acute": '´',
}
