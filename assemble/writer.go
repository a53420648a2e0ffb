package assemble

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/tsawler/sigil/core"
)

// pdfHeader pins the output version. Every feature the assembler emits is
// expressible in 1.7.
const pdfHeader = "%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"

// writeDocument serializes a numbered object set as a complete PDF with a
// classic xref table. The trailer dict must already carry Root; Size is
// filled in here.
func writeDocument(objects map[int]core.Object, trailer core.Dict) ([]byte, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("no objects to write")
	}

	nums := make([]int, 0, len(objects))
	maxNum := 0
	for num := range objects {
		nums = append(nums, num)
		if num > maxNum {
			maxNum = num
		}
	}
	sort.Ints(nums)

	var buf bytes.Buffer
	buf.WriteString(pdfHeader)

	offsets := make(map[int]int, len(objects))
	for _, num := range nums {
		offsets[num] = buf.Len()
		if err := core.WriteIndirectObject(&buf, num, 0, objects[num]); err != nil {
			return nil, fmt.Errorf("writing object %d: %w", num, err)
		}
	}

	size := maxNum + 1
	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		if off, ok := offsets[num]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	trailer.Set("Size", core.Int(size))
	buf.WriteString("trailer\n")
	if err := core.WriteObject(&buf, trailer); err != nil {
		return nil, fmt.Errorf("writing trailer: %w", err)
	}
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes(), nil
}
