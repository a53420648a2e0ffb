package ocr

import (
	"fmt"
	"strings"
)

// ImageRecognizer turns encoded image bytes into text. Both the Tesseract
// client and the stub satisfy it.
type ImageRecognizer interface {
	RecognizeImage(imageData []byte) (string, error)
}

// PageScanner adapts a recognizer and a per-page image source into the
// page-text function the placement planner accepts for scanned documents.
// Text from multiple images on one page is joined with newlines.
func PageScanner(rec ImageRecognizer, images func(pageIndex int) ([][]byte, error)) func(int) (string, error) {
	return func(pageIndex int) (string, error) {
		imgs, err := images(pageIndex)
		if err != nil {
			return "", fmt.Errorf("collecting page %d images: %w", pageIndex, err)
		}

		var parts []string
		for _, data := range imgs {
			text, err := rec.RecognizeImage(data)
			if err != nil {
				return "", err
			}
			if text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n"), nil
	}
}
