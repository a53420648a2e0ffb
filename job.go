package sigil

import (
	"fmt"
	"os"

	"github.com/tsawler/sigil/asset"
	"github.com/tsawler/sigil/detect"
	"github.com/tsawler/sigil/ocr"
	"github.com/tsawler/sigil/reader"
	"github.com/tsawler/sigil/sign"
)

// Info summarizes a document without modifying it
type Info struct {
	PageCount int
	Version   string
	Signed    bool
}

// Detect runs placement detection and reports where signatures would land
func (j *Job) Detect() (detect.Detection, error) {
	pipeline, err := j.pipeline()
	if err != nil {
		return detect.Detection{}, err
	}
	return pipeline.Detect(j.data, j.req.F2F)
}

// Sign composites the signature into the document and returns the signed
// bytes alongside the detection that placed them.
func (j *Job) Sign() ([]byte, detect.Detection, error) {
	pipeline, err := j.pipeline()
	if err != nil {
		return nil, detect.Detection{}, err
	}

	req := j.req
	if err := req.Validate(); err != nil {
		return nil, detect.Detection{}, err
	}

	artwork := j.artwork
	if artwork == nil && len(j.rawArt) > 0 {
		img, err := asset.Decode(j.rawArt)
		if err != nil {
			return nil, detect.Detection{}, err
		}
		processed, err := asset.Process(img)
		if err != nil {
			return nil, detect.Detection{}, fmt.Errorf("preparing artwork: %w", err)
		}
		artwork = processed
	}

	return pipeline.Run(j.data, req, artwork, nil)
}

// SignTo signs the document and writes the result to filename
func (j *Job) SignTo(filename string) (detect.Detection, error) {
	signed, detection, err := j.Sign()
	if err != nil {
		return detection, err
	}
	if err := os.WriteFile(filename, signed, 0o644); err != nil {
		return detection, fmt.Errorf("writing %s: %w", filename, err)
	}
	return detection, nil
}

// Info reports page count, version, and whether the document already
// carries the signed marker.
func (j *Job) Info() (Info, error) {
	if j.err != nil {
		return Info{}, j.err
	}

	r, err := reader.OpenBytes(j.data)
	if err != nil {
		return Info{}, err
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return Info{}, err
	}

	signed, err := sign.IsSigned(j.data)
	if err != nil {
		return Info{}, err
	}

	return Info{
		PageCount: count,
		Version:   r.Version().String(),
		Signed:    signed,
	}, nil
}

// pipeline builds the configured signing pipeline
func (j *Job) pipeline() (*sign.Pipeline, error) {
	if j.err != nil {
		return nil, j.err
	}

	pipeline, err := sign.NewPipeline()
	if err != nil {
		return nil, err
	}

	if len(j.patterns) > 0 {
		locator, err := detect.NewLocator(j.patterns...)
		if err != nil {
			return nil, fmt.Errorf("compiling keyword patterns: %w", err)
		}
		pipeline.Planner.WithLocator(locator)
	}
	switch {
	case j.scanText != nil:
		pipeline.Planner.ScanText = j.scanText
	case j.recognizer != nil:
		// Parse the document lazily, on the first scanned page. An
		// in-memory reader holds no file handle, so nothing to close.
		var r *reader.Reader
		images := func(pageIndex int) ([][]byte, error) {
			if r == nil {
				var err error
				r, err = reader.OpenBytes(j.data)
				if err != nil {
					return nil, err
				}
			}
			return r.PageImageData(pageIndex)
		}
		pipeline.Planner.ScanText = ocr.PageScanner(j.recognizer, images)
	}
	return pipeline, nil
}
