package sign

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tsawler/sigil/detect"
	"github.com/tsawler/sigil/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignRequest asks for one document to be signed
type SignRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	SignerName string `json:"signer_name" validate:"required"`

	// SignerID selects stored artwork; empty means text-only attestation
	SignerID string `json:"signer_id,omitempty"`

	// F2F switches to the face-to-face audit-box policy
	F2F bool `json:"f2f"`

	IPAddress string `json:"ip_address,omitempty" validate:"omitempty,ip"`

	// Position and Positions supply explicit placements, skipping
	// detection. At most one of the two may be set; when neither is,
	// placements are auto-detected.
	Position  *model.Placement  `json:"position,omitempty"`
	Positions []model.Placement `json:"positions,omitempty"`
}

// Placements returns the explicitly requested placements, or nil when the
// request asks for auto-detection.
func (r *SignRequest) Placements() []model.Placement {
	if r.Position != nil {
		return []model.Placement{*r.Position}
	}
	return r.Positions
}

// Validate checks the request and fills defaults
func (r *SignRequest) Validate() error {
	if r.DocumentID == "" {
		r.DocumentID = uuid.NewString()
	}
	if r.Position != nil && len(r.Positions) > 0 {
		return fmt.Errorf("invalid sign request: position and positions are mutually exclusive")
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid sign request: %w", err)
	}
	return nil
}

// DetectRequest asks where signatures would land without signing
type DetectRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
	F2F        bool   `json:"f2f"`
}

func (r *DetectRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid detect request: %w", err)
	}
	return nil
}

// DetectResult reports one batch detection outcome
type DetectResult struct {
	DocumentID string           `json:"document_id"`
	Detection  detect.Detection `json:"detection"`
	Err        error            `json:"-"`
}

// Result reports one signing outcome. Err is nil on success; failed batch
// entries carry their error here instead of aborting the batch.
type Result struct {
	DocumentID string           `json:"document_id"`
	Status     Status           `json:"status"`
	Detection  detect.Detection `json:"detection"`
	Err        error            `json:"-"`
}
