package dto

import (
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/brokerdesk/brokerdesk/internal/validator"
)

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderSignatureRequest carries strokes captured on a client. Zero
// width and height fall back to the configured canvas size.
type RenderSignatureRequest struct {
	Width   int              `json:"width" validate:"omitempty,min=1,max=4096"`
	Height  int              `json:"height" validate:"omitempty,min=1,max=4096"`
	Strokes [][]PointRequest `json:"strokes" validate:"max=500,dive,max=10000"`
}

func (r *RenderSignatureRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *RenderSignatureRequest) ToStrokes() []signature.Stroke {
	strokes := make([]signature.Stroke, 0, len(r.Strokes))
	for _, s := range r.Strokes {
		stroke := make(signature.Stroke, 0, len(s))
		for _, p := range s {
			stroke = append(stroke, signature.Point{X: p.X, Y: p.Y})
		}
		strokes = append(strokes, stroke)
	}
	return strokes
}

type SignatureResponse struct {
	DataURL string `json:"data_url"`
}
