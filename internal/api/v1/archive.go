package v1

import (
	"net/http"

	"github.com/brokerdesk/brokerdesk/internal/archive"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/service"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/gin-gonic/gin"
)

type ArchiveHandler struct {
	service service.ArchiveService
}

func NewArchiveHandler(service service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

// @Summary Browse the archive
// @Description Replaces the session's archive filter with the query and returns the matching page
// @Tags Archive
// @Produce json
// @Security BearerAuth
// @Param filter query types.DocumentFilter false "Filter"
// @Success 200 {object} dto.ArchiveResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /archive [get]
func (h *ArchiveHandler) Browse(c *gin.Context) {
	query := types.NewDocumentFilter()
	if err := c.ShouldBindQuery(query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if err := query.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.Browse(c.Request.Context(), session(c),
		archive.FromDocumentFilter(query), query.GetPage(), query.GetPageSize())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
