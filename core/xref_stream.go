package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// isXRefStream peeks at the data at startPos and reports whether it is an
// XRef stream (an indirect object header) rather than a traditional xref
// table (the "xref" keyword).
func (x *XRefParser) isXRefStream() (bool, error) {
	_, err := x.reader.Seek(x.startPos, io.SeekStart)
	if err != nil {
		return false, fmt.Errorf("failed to seek to xref: %w", err)
	}

	buf := make([]byte, 64)
	n, err := x.reader.Read(buf)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read xref data: %w", err)
	}

	head := strings.TrimLeft(string(buf[:n]), " \t\r\n")
	if strings.HasPrefix(head, "xref") {
		return false, nil
	}

	// XRef streams start with an object header: "N G obj"
	fields := strings.Fields(head)
	if len(fields) >= 3 && fields[2] == "obj" {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			if _, err := strconv.Atoi(fields[1]); err == nil {
				return true, nil
			}
		}
	}

	return false, fmt.Errorf("unrecognized xref data at offset %d", x.startPos)
}

// readBigEndianInt reads a big-endian integer of the given byte width.
// A width of zero yields zero, which lets callers apply per-field defaults.
func readBigEndianInt(data []byte, width int) int64 {
	var v int64
	for i := 0; i < width; i++ {
		v = v<<8 | int64(data[i])
	}
	return v
}

// parseXRefStreamEntry decodes one entry from the decoded XRef stream data
// using the field widths from /W. It returns the entry and the number of
// bytes consumed.
//
// Field semantics by entry type:
//
//	type 0: field1 = next free object number, field2 = generation
//	type 1: field1 = byte offset, field2 = generation
//	type 2: field1 = object stream number, field2 = index within it
//
// A /W type width of zero means every entry is type 1.
func (x *XRefParser) parseXRefStreamEntry(data []byte, w []int) (*XRefEntry, int, error) {
	if len(w) != 3 {
		return nil, 0, fmt.Errorf("invalid /W array length: %d", len(w))
	}

	total := w[0] + w[1] + w[2]
	if len(data) < total {
		return nil, 0, fmt.Errorf("truncated xref stream entry: have %d bytes, need %d", len(data), total)
	}

	entryType := int64(1) // default when the type field is absent
	if w[0] > 0 {
		entryType = readBigEndianInt(data, w[0])
	}
	field1 := readBigEndianInt(data[w[0]:], w[1])
	field2 := readBigEndianInt(data[w[0]+w[1]:], w[2])

	entry := &XRefEntry{
		Offset:     field1,
		Generation: int(field2),
	}

	switch entryType {
	case 0:
		entry.Type = XRefEntryFree
		entry.InUse = false
	case 1:
		entry.Type = XRefEntryUncompressed
		entry.InUse = true
	case 2:
		entry.Type = XRefEntryCompressed
		entry.InUse = true
	default:
		// The spec says to treat unknown types as null references;
		// record them as free so lookups fail cleanly.
		entry.Type = XRefEntryFree
		entry.InUse = false
	}

	return entry, total, nil
}

// parseXRefStream parses an XRef stream object (PDF 1.5+) at startPos.
// The stream dictionary doubles as the trailer.
func (x *XRefParser) parseXRefStream() (*XRefTable, error) {
	_, err := x.reader.Seek(x.startPos, io.SeekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to seek to xref stream: %w", err)
	}

	parser := NewParser(x.reader)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream object: %w", err)
	}

	stream, ok := indObj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream object is not a stream, got %T", indObj.Object)
	}

	dict := stream.Dict

	typeName, ok := dict.Get("Type").(Name)
	if !ok || string(typeName) != "XRef" {
		return nil, fmt.Errorf("xref stream has wrong /Type: %v", dict.Get("Type"))
	}

	sizeInt, ok := dict.Get("Size").(Int)
	if !ok {
		return nil, fmt.Errorf("xref stream missing /Size")
	}
	size := int(sizeInt)

	w, err := parseWArray(dict.Get("W"))
	if err != nil {
		return nil, err
	}

	index, err := parseIndexArray(dict.Get("Index"), size)
	if err != nil {
		return nil, err
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.IsStream = true
	table.Trailer = dict

	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first := index[i]
		count := index[i+1]

		for j := 0; j < count; j++ {
			entry, n, err := x.parseXRefStreamEntry(data[pos:], w)
			if err != nil {
				return nil, fmt.Errorf("failed to parse xref stream entry %d: %w", first+j, err)
			}
			pos += n
			table.Set(first+j, entry)
		}
	}

	return table, nil
}

// parseWArray validates the /W field widths array
func parseWArray(obj Object) ([]int, error) {
	arr, ok := obj.(Array)
	if !ok {
		return nil, fmt.Errorf("xref stream missing /W array")
	}
	if len(arr) != 3 {
		return nil, fmt.Errorf("invalid /W array length: %d", len(arr))
	}

	w := make([]int, 3)
	for i, elem := range arr {
		width, ok := elem.(Int)
		if !ok {
			return nil, fmt.Errorf("invalid /W entry type: %T", elem)
		}
		if width < 0 || width > 8 {
			return nil, fmt.Errorf("invalid /W field width: %d", width)
		}
		w[i] = int(width)
	}
	return w, nil
}

// parseIndexArray parses the optional /Index array of (first, count) pairs.
// When absent it defaults to a single subsection covering [0, Size).
func parseIndexArray(obj Object, size int) ([]int, error) {
	if obj == nil {
		return []int{0, size}, nil
	}

	arr, ok := obj.(Array)
	if !ok {
		return nil, fmt.Errorf("invalid /Index type: %T", obj)
	}
	if len(arr)%2 != 0 {
		return nil, fmt.Errorf("invalid /Index array length: %d", len(arr))
	}

	index := make([]int, len(arr))
	for i, elem := range arr {
		v, ok := elem.(Int)
		if !ok {
			return nil, fmt.Errorf("invalid /Index entry type: %T", elem)
		}
		index[i] = int(v)
	}
	return index, nil
}
