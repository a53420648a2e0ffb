package sign

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/sigil/assemble"
	"github.com/tsawler/sigil/asset"
	"github.com/tsawler/sigil/detect"
	"github.com/tsawler/sigil/reader"
)

// ErrAlreadySigned rejects a second signing pass over the same document
var ErrAlreadySigned = errors.New("document is already signed")

// batchWorkers bounds concurrent batch signings
const batchWorkers = 4

// DocumentSource fetches and stores document bytes by ID
type DocumentSource interface {
	Fetch(ctx context.Context, docID string) ([]byte, error)
	Store(ctx context.Context, docID string, data []byte) error
}

// AssetSource supplies stored signature artwork. *asset.Vault satisfies it.
type AssetSource interface {
	Load(signerID string) ([]byte, error)
	Has(signerID string) bool
}

// Signer runs the signing pipeline against document and asset sources,
// tracking each document through the lifecycle.
type Signer struct {
	docs     DocumentSource
	assets   AssetSource
	pipeline *Pipeline
	status   *tracker
}

// NewSigner wires the pipeline. assets may be nil for text-only signing.
func NewSigner(docs DocumentSource, assets AssetSource) (*Signer, error) {
	if docs == nil {
		return nil, fmt.Errorf("document source is required")
	}
	pipeline, err := NewPipeline()
	if err != nil {
		return nil, err
	}
	return &Signer{
		docs:     docs,
		assets:   assets,
		pipeline: pipeline,
		status:   newTracker(),
	}, nil
}

// Planner exposes the planner for tuning, such as wiring a text recognition
// hook for scanned documents.
func (s *Signer) Planner() *detect.Planner {
	return s.pipeline.Planner
}

// Status reports a document's lifecycle position
func (s *Signer) Status(docID string) Status {
	return s.status.get(docID)
}

// Detect reports where signatures would be placed without modifying the
// document.
func (s *Signer) Detect(ctx context.Context, req DetectRequest) (detect.Detection, error) {
	if err := req.Validate(); err != nil {
		return detect.Detection{}, err
	}

	data, err := s.docs.Fetch(ctx, req.DocumentID)
	if err != nil {
		return detect.Detection{}, fmt.Errorf("fetching document %s: %w", req.DocumentID, err)
	}
	return s.pipeline.Detect(data, req.F2F)
}

// Sign runs the full pipeline for one document and stores the signed bytes
// back through the document source.
func (s *Signer) Sign(ctx context.Context, req SignRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result, err := s.sign(ctx, req)
	if err != nil {
		// An integrity failure aborts before any document work, so the
		// document's lifecycle position is left alone.
		if !errors.Is(err, asset.ErrIntegrity) {
			s.status.fail(req.DocumentID)
		}
		return nil, err
	}
	return result, nil
}

func (s *Signer) sign(ctx context.Context, req SignRequest) (*Result, error) {
	if s.status.get(req.DocumentID) == StatusSigned {
		return nil, fmt.Errorf("document %s: %w", req.DocumentID, ErrAlreadySigned)
	}

	data, err := s.docs.Fetch(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetching document %s: %w", req.DocumentID, err)
	}

	artwork, err := s.loadArtwork(req)
	if err != nil {
		return nil, err
	}

	// A previously failed document restarts the lifecycle
	if s.status.get(req.DocumentID) == StatusFailed {
		if err := s.status.advance(req.DocumentID, StatusPending); err != nil {
			return nil, err
		}
	}

	signed, detection, err := s.pipeline.Run(data, req, artwork, func(st Status) error {
		return s.status.advance(req.DocumentID, st)
	})
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", req.DocumentID, err)
	}

	if err := s.docs.Store(ctx, req.DocumentID, signed); err != nil {
		return nil, fmt.Errorf("storing signed document %s: %w", req.DocumentID, err)
	}

	if err := s.status.advance(req.DocumentID, StatusSigned); err != nil {
		return nil, err
	}

	return &Result{
		DocumentID: req.DocumentID,
		Status:     StatusSigned,
		Detection:  detection,
	}, nil
}

// loadArtwork fetches and decodes the signer's stored artwork, if any
func (s *Signer) loadArtwork(req SignRequest) (image.Image, error) {
	if req.SignerID == "" || s.assets == nil || !s.assets.Has(req.SignerID) {
		return nil, nil
	}
	data, err := s.assets.Load(req.SignerID)
	if err != nil {
		return nil, fmt.Errorf("loading artwork for %s: %w", req.SignerID, err)
	}
	img, err := asset.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding artwork for %s: %w", req.SignerID, err)
	}
	return img, nil
}

// SignBatch signs each request with bounded concurrency. Results arrive in
// request order; failed entries carry their error and a Failed status.
// Requests without an explicit Position or Positions always auto-detect
// their placements; there is no separate switch to disable detection.
func (s *Signer) SignBatch(ctx context.Context, reqs []SignRequest) []Result {
	results := make([]Result, len(reqs))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(batchWorkers)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := s.Sign(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = Result{DocumentID: req.DocumentID, Status: StatusFailed, Err: err}
				return nil
			}
			results[i] = *res
			return nil
		})
	}

	// Workers never return errors; they report through results
	_ = g.Wait()
	return results
}

// DetectBatch runs detection for each request with bounded concurrency.
// Detection is read-only, so failures are isolated per document and
// reported in the matching DetectResult.
func (s *Signer) DetectBatch(ctx context.Context, reqs []DetectRequest) []DetectResult {
	results := make([]DetectResult, len(reqs))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(batchWorkers)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			detection, err := s.Detect(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			results[i] = DetectResult{
				DocumentID: req.DocumentID,
				Detection:  detection,
				Err:        err,
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// IsSigned reports whether document bytes already carry the signed marker,
// without going through a source.
func IsSigned(data []byte) (bool, error) {
	r, err := reader.OpenBytes(data)
	if err != nil {
		return false, err
	}
	defer r.Close()
	catalog, err := r.GetCatalog()
	if err != nil {
		return false, err
	}
	return assemble.IsSigned(catalog), nil
}
