package v1

import (
	"net/http"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	"github.com/brokerdesk/brokerdesk/internal/config"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/signature"
	"github.com/gin-gonic/gin"
)

type SignatureHandler struct {
	cfg config.SignatureConfig
}

func NewSignatureHandler(cfg *config.Configuration) *SignatureHandler {
	return &SignatureHandler{cfg: cfg.Signature}
}

// @Summary Render captured strokes
// @Description Replays pen strokes on a signature surface and returns the PNG as a data URL
// @Tags Signatures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param strokes body dto.RenderSignatureRequest true "Strokes"
// @Success 200 {object} dto.SignatureResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /signatures/render [post]
func (h *SignatureHandler) Render(c *gin.Context) {
	var req dto.RenderSignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = h.cfg.Width
	}
	if height == 0 {
		height = h.cfg.Height
	}

	dataURL, err := signature.Render(width, height, req.ToStrokes(), signature.WithStyle(signature.Style{
		LineWidth: h.cfg.LineWidth,
		Color:     h.cfg.Color,
	}))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SignatureResponse{DataURL: dataURL})
}
