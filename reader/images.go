package reader

// PageImageData returns the encoded bytes of a page's image XObjects in a
// form a text recognizer accepts. DCTDecode stream data is already JPEG and
// passes through unchanged, which is what scanned-document pages hold;
// images under other filters are decoded and re-encoded as PNG. Images that
// cannot be converted are skipped. The result feeds text recognition for
// pages without extractable words.
func (r *Reader) PageImageData(index int) ([][]byte, error) {
	page, err := r.GetPage(index)
	if err != nil {
		return nil, err
	}

	extracted, err := r.ExtractPageImages(page)
	if err != nil {
		return nil, err
	}

	var images [][]byte
	for i := range extracted {
		img := &extracted[i]
		if img.Filter == "DCTDecode" {
			images = append(images, img.Data)
			continue
		}
		encoded, err := img.ToPNG()
		if err != nil {
			continue
		}
		images = append(images, encoded)
	}
	return images, nil
}
