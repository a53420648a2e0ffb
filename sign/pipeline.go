package sign

import (
	"fmt"
	"image"
	"time"

	"github.com/tsawler/sigil/assemble"
	"github.com/tsawler/sigil/core"
	"github.com/tsawler/sigil/detect"
	"github.com/tsawler/sigil/model"
	"github.com/tsawler/sigil/overlay"
	"github.com/tsawler/sigil/reader"
)

// Pipeline is the document-level signing engine: bytes in, signed bytes
// out. It carries no storage or lifecycle state; Signer layers those on
// top, and the package-level fluent API uses it directly.
type Pipeline struct {
	Planner    *detect.Planner
	Compositor *overlay.Compositor
	Assembler  *assemble.Assembler

	// Now supplies attestation timestamps; defaults to time.Now
	Now func() time.Time
}

// NewPipeline builds a pipeline with default detection and rendering
func NewPipeline() (*Pipeline, error) {
	planner, err := detect.NewPlanner()
	if err != nil {
		return nil, fmt.Errorf("building placement planner: %w", err)
	}
	planner.AuditWidth, planner.AuditHeight = overlay.AuditBoxSize(
		detect.SignatureWidth, detect.SignatureHeight)
	return &Pipeline{
		Planner:    planner,
		Compositor: overlay.NewCompositor(),
		Assembler:  assemble.NewAssembler(),
		Now:        time.Now,
	}, nil
}

// Detect reports placements without modifying the document
func (p *Pipeline) Detect(data []byte, f2f bool) (detect.Detection, error) {
	r, err := reader.OpenBytes(data)
	if err != nil {
		return detect.Detection{}, fmt.Errorf("parsing document: %w", err)
	}
	defer r.Close()

	geoms, err := r.AllPageGeometry()
	if err != nil {
		return detect.Detection{}, fmt.Errorf("analyzing document: %w", err)
	}
	return p.Planner.Detect(geoms, f2f), nil
}

// Run signs document bytes. artwork may be nil for text-only attestation.
// progress, when non-nil, is called as the document enters each working
// stage; a progress error aborts the run. Documents already carrying the
// signed marker are rejected with ErrAlreadySigned.
func (p *Pipeline) Run(data []byte, req SignRequest, artwork image.Image, progress func(Status) error) ([]byte, detect.Detection, error) {
	r, err := reader.OpenBytes(data)
	if err != nil {
		return nil, detect.Detection{}, fmt.Errorf("parsing document: %w", err)
	}
	defer r.Close()

	if catalog, err := r.GetCatalog(); err == nil && assemble.IsSigned(catalog) {
		return nil, detect.Detection{}, ErrAlreadySigned
	}

	geoms, err := r.AllPageGeometry()
	if err != nil {
		return nil, detect.Detection{}, fmt.Errorf("analyzing document: %w", err)
	}

	if err := report(progress, StatusPlanned); err != nil {
		return nil, detect.Detection{}, err
	}

	var detection detect.Detection
	if given := req.Placements(); len(given) > 0 {
		detection = detect.Detection{
			Found:      true,
			Positions:  given,
			TotalPages: len(geoms),
		}
	} else {
		detection = p.Planner.Detect(geoms, req.F2F)
	}
	if !detection.Found || len(detection.Positions) == 0 {
		return nil, detection, fmt.Errorf("no placement found")
	}

	if err := report(progress, StatusCompositing); err != nil {
		return nil, detection, err
	}

	overlays, err := p.buildOverlays(req, detection, geoms, artwork)
	if err != nil {
		return nil, detection, err
	}

	signed, err := p.Assembler.ApplySequential(data, overlays)
	if err != nil {
		return nil, detection, fmt.Errorf("assembling document: %w", err)
	}
	return signed, detection, nil
}

func report(progress func(Status) error, st Status) error {
	if progress == nil {
		return nil
	}
	return progress(st)
}

// buildOverlays renders one overlay per placement. Artwork is encoded once
// and shared by every generic placement; F2F placements render the audit
// box and carry no image.
func (p *Pipeline) buildOverlays(req SignRequest, detection detect.Detection, geoms []model.PageGeometry, artwork image.Image) ([]assemble.Overlay, error) {
	mode := model.RenderStandard
	timeLayout := "2006-01-02 15:04:05"
	if req.F2F {
		mode = model.RenderF2FAudit
		timeLayout = "Monday, 02 January 2006 15:04:05"
	}

	info := model.AttestationInfo{
		SignerName: req.SignerName,
		Timestamp:  p.Now().UTC().Format(timeLayout),
		DocumentID: req.DocumentID,
		IPAddress:  req.IPAddress,
	}

	var imgStream, maskStream *core.Stream
	var imgRef *overlay.ImageRef
	if artwork != nil {
		var err error
		imgStream, maskStream, err = overlay.NewImageXObject(artwork)
		if err != nil {
			return nil, fmt.Errorf("encoding artwork: %w", err)
		}
		imgRef = &overlay.ImageRef{
			Name:   p.Compositor.ImageName,
			Width:  artwork.Bounds().Dx(),
			Height: artwork.Bounds().Dy(),
		}
	}

	overlays := make([]assemble.Overlay, 0, len(detection.Positions))
	for _, pl := range detection.Positions {
		if pl.Page < 0 || pl.Page >= len(geoms) {
			return nil, fmt.Errorf("placement page %d: %w", pl.Page, assemble.ErrPageOutOfRange)
		}
		geom := geoms[pl.Page]
		content := p.Compositor.Render(pl, mode, imgRef, info, geom.Width, geom.Height)
		overlays = append(overlays, assemble.Overlay{
			Page:         pl.Page,
			Content:      content,
			Image:        imgStream,
			Mask:         maskStream,
			ImageName:    p.Compositor.ImageName,
			FontName:     p.Compositor.FontName,
			BoldFontName: p.Compositor.BoldFontName,
			MarkSigned:   true,
		})
	}
	return overlays, nil
}
