package sigil

import (
	"image"

	"github.com/tsawler/sigil/model"
	"github.com/tsawler/sigil/ocr"
	"github.com/tsawler/sigil/sign"
)

// Job carries a document and its signing configuration through the fluent
// API. Configuration methods return the Job for chaining; errors are held
// until a terminal operation.
type Job struct {
	data []byte
	err  error

	req        sign.SignRequest
	artwork    image.Image
	rawArt     []byte
	patterns   []string
	scanText   func(pageIndex int) (string, error)
	recognizer ocr.ImageRecognizer
}

// Signer sets the name rendered in the attestation text. Required for
// Sign.
func (j *Job) Signer(name string) *Job {
	j.req.SignerName = name
	return j
}

// DocumentID sets the identifier rendered in the F2F audit box. A random
// one is generated when absent.
func (j *Job) DocumentID(id string) *Job {
	j.req.DocumentID = id
	return j
}

// IP records the signer's address in the attestation metadata
func (j *Job) IP(addr string) *Job {
	j.req.IPAddress = addr
	return j
}

// F2F switches to the face-to-face policy: keyword search is skipped and
// an audit box is placed on the last page.
func (j *Job) F2F() *Job {
	j.req.F2F = true
	return j
}

// Artwork supplies a decoded signature image to composite. The image is
// used as-is; use ArtworkBytes for uploads that still need background
// removal.
func (j *Job) Artwork(img image.Image) *Job {
	j.artwork = img
	return j
}

// ArtworkBytes supplies raw PNG or JPEG upload bytes. The image is decoded,
// its background removed, and the result trimmed and scaled before
// compositing.
func (j *Job) ArtworkBytes(data []byte) *Job {
	j.rawArt = data
	return j
}

// At places signatures at the given positions instead of detecting them.
// Page indices are validated against the document during Sign.
func (j *Job) At(placements ...model.Placement) *Job {
	j.req.Positions = placements
	return j
}

// Keywords replaces the anchor pattern list with custom regular
// expressions, in priority order.
func (j *Job) Keywords(patterns ...string) *Job {
	j.patterns = patterns
	return j
}

// WithTextRecognition wires a recognized-text supplier for pages without
// extractable words, such as scanned documents.
func (j *Job) WithTextRecognition(scan func(pageIndex int) (string, error)) *Job {
	j.scanText = scan
	return j
}

// WithRecognizer runs the recognizer over each wordless page's embedded
// images. Use the ocr package's Client when built with OCR support, or any
// other ImageRecognizer. WithTextRecognition takes precedence when both
// are set.
func (j *Job) WithRecognizer(rec ocr.ImageRecognizer) *Job {
	j.recognizer = rec
	return j
}
