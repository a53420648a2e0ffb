package core

import (
	"fmt"
	"io"
	"sort"
	"strconv"
)

// WriteObject serializes an object into PDF file syntax.
//
// The String methods on objects are meant for debugging and do not escape
// string or name contents. This writer produces output a conforming parser
// can read back: literal strings get backslash escapes, names get # escapes,
// and dictionary keys are emitted in sorted order so output is deterministic.
func WriteObject(w io.Writer, obj Object) error {
	switch v := obj.(type) {
	case nil, Null:
		_, err := io.WriteString(w, "null")
		return err

	case Bool:
		if v {
			_, err := io.WriteString(w, "true")
			return err
		}
		_, err := io.WriteString(w, "false")
		return err

	case Int:
		_, err := io.WriteString(w, strconv.FormatInt(int64(v), 10))
		return err

	case Real:
		_, err := io.WriteString(w, formatReal(float64(v)))
		return err

	case String:
		return writeLiteralString(w, []byte(v))

	case Name:
		return writeName(w, string(v))

	case Array:
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		for i, elem := range v {
			if i > 0 {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
			if err := WriteObject(w, elem); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "]")
		return err

	case Dict:
		return writeDict(w, v)

	case *Stream:
		return writeStream(w, v)

	case IndirectRef:
		_, err := fmt.Fprintf(w, "%d %d R", v.Number, v.Generation)
		return err

	default:
		return fmt.Errorf("cannot serialize object type %T", obj)
	}
}

// WriteIndirectObject serializes a complete "N G obj ... endobj" record.
func WriteIndirectObject(w io.Writer, number, generation int, obj Object) error {
	if _, err := fmt.Fprintf(w, "%d %d obj\n", number, generation); err != nil {
		return err
	}
	if err := WriteObject(w, obj); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendobj\n")
	return err
}

// formatReal renders a real number the way PDF expects: plain decimal
// notation, no exponent, trailing zeros trimmed.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	// Trim trailing zeros but keep at least one digit after the point,
	// then drop a bare trailing point.
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	if i == 0 {
		return "0"
	}
	return s[:i]
}

func writeLiteralString(w io.Writer, data []byte) error {
	buf := make([]byte, 0, len(data)+2)
	buf = append(buf, '(')
	for _, b := range data {
		switch b {
		case '(', ')', '\\':
			buf = append(buf, '\\', b)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if b < 0x20 || b >= 0x7F {
				buf = append(buf, fmt.Sprintf("\\%03o", b)...)
			} else {
				buf = append(buf, b)
			}
		}
	}
	buf = append(buf, ')')
	_, err := w.Write(buf)
	return err
}

func writeName(w io.Writer, name string) error {
	buf := make([]byte, 0, len(name)+1)
	buf = append(buf, '/')
	for i := 0; i < len(name); i++ {
		b := name[i]
		// Regular characters go through as-is; delimiters, whitespace and
		// non-printable bytes need the #xx escape.
		if b <= 0x20 || b >= 0x7F || b == '#' || isDelimiter(b) {
			buf = append(buf, fmt.Sprintf("#%02X", b)...)
		} else {
			buf = append(buf, b)
		}
	}
	_, err := w.Write(buf)
	return err
}

func writeDict(w io.Writer, d Dict) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := writeName(w, k); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := WriteObject(w, d[k]); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, " >>")
	return err
}

func writeStream(w io.Writer, s *Stream) error {
	dict := s.Dict
	if dict == nil {
		dict = Dict{}
	}
	dict["Length"] = Int(len(s.Data))

	if err := writeDict(w, dict); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(s.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendstream")
	return err
}
