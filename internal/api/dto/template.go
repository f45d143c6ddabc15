package dto

import (
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/domain/template"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/validator"
)

// UploadTemplateRequest registers a new template. The PDF arrives as a
// multipart part and is attached by the handler.
type UploadTemplateRequest struct {
	Kind types.DocumentType `form:"kind" json:"kind" validate:"required"`
	Name string             `form:"name" json:"name" validate:"omitempty,max=255"`

	FileName string `form:"-" json:"-"`
	Data     []byte `form:"-" json:"-"`
}

func (r *UploadTemplateRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Kind.IsGeneratable() {
		return ierr.NewErrorf("no layout for template kind %q", r.Kind).
			WithHintf("Templates can be uploaded for %v", types.GeneratableDocumentTypes).
			Mark(ierr.ErrValidation)
	}
	if len(r.Data) == 0 {
		return ierr.NewError("file is required").
			WithHint("Please attach a PDF template").
			Mark(ierr.ErrValidation)
	}
	if int64(len(r.Data)) > types.MaxDocumentSize {
		return ierr.NewError("template too large").
			WithHintf("Templates must be at most %d MB", types.MaxDocumentSize>>20).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *UploadTemplateRequest) DisplayName() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	if r.FileName != "" {
		return r.FileName
	}
	return string(r.Kind)
}

type TemplateResponse struct {
	*template.Template
	// Active is true for the newest template of its kind
	Active bool `json:"active"`
}

type ListTemplatesResponse struct {
	Items []*TemplateResponse `json:"items"`
}
