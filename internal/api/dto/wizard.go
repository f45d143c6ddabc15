package dto

import (
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/wizard"
)

type WizardResponse struct {
	*wizard.Wizard
}

type ValidateWizardRequest struct {
	Values     map[string]string      `json:"values"`
	Signatures map[pdf.Overlay]string `json:"signatures"`
	// Step limits the check to one step; empty checks them all
	Step string `json:"step"`
}

type ValidateWizardResponse struct {
	Valid bool `json:"valid"`
}
