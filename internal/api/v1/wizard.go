package v1

import (
	"net/http"

	"github.com/brokerdesk/brokerdesk/internal/api/dto"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// WizardHandler serves the step descriptors clients render forms from
type WizardHandler struct{}

func NewWizardHandler() *WizardHandler {
	return &WizardHandler{}
}

// @Summary Get a form wizard
// @Tags Wizards
// @Produce json
// @Security BearerAuth
// @Param type path string true "Document type"
// @Success 200 {object} dto.WizardResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /wizards/{type} [get]
func (h *WizardHandler) GetWizard(c *gin.Context) {
	wz, err := wizard.For(types.DocumentType(c.Param("type")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WizardResponse{Wizard: wz})
}

// @Summary Check wizard input
// @Description Runs the step gates without generating anything
// @Tags Wizards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "Document type"
// @Param input body dto.ValidateWizardRequest true "Values and signatures"
// @Success 200 {object} dto.ValidateWizardResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /wizards/{type}/validate [post]
func (h *WizardHandler) Validate(c *gin.Context) {
	var req dto.ValidateWizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	wz, err := wizard.For(types.DocumentType(c.Param("type")))
	if err != nil {
		c.Error(err)
		return
	}

	if req.Step == "" {
		err = wz.Validate(req.Values, req.Signatures)
	} else {
		step, ok := lo.Find(wz.Steps, func(s wizard.Step) bool { return s.Name == req.Step })
		if !ok {
			c.Error(ierr.NewErrorf("unknown step %q", req.Step).
				WithHintf("The %s form has no step %q", wz.Type, req.Step).
				Mark(ierr.ErrNotFound))
			return
		}
		err = step.Check(req.Values, req.Signatures)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ValidateWizardResponse{Valid: true})
}
