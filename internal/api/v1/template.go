package v1

import (
	"net/http"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/service"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	service service.TemplateService
}

func NewTemplateHandler(service service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// @Summary Upload a template
// @Description The newest template of a kind becomes the active one
// @Tags Templates
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param kind formData string true "Document type"
// @Param file formData file true "PDF template"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /templates [post]
func (h *TemplateHandler) UploadTemplate(c *gin.Context) {
	var req dto.UploadTemplateRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	name, data, err := readFormFile(c, "file")
	if err != nil {
		c.Error(err)
		return
	}
	req.FileName, req.Data = name, data

	resp, err := h.service.UploadTemplate(c.Request.Context(), session(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List templates
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListTemplatesResponse
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	resp, err := h.service.ListTemplates(c.Request.Context(), session(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
