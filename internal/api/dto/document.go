package dto

import (
	"strings"

	"github.com/brokerdesk/brokerdesk/internal/archive"
	"github.com/brokerdesk/brokerdesk/internal/domain/document"
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/pdf"
	"github.com/brokerdesk/brokerdesk/internal/types"
	"github.com/brokerdesk/brokerdesk/internal/validator"
	"github.com/samber/lo"
)

// UploadDocumentRequest archives an existing file. The file itself arrives
// as a multipart part and is attached by the handler.
type UploadDocumentRequest struct {
	Name       string             `form:"name" json:"name" validate:"omitempty,max=255"`
	Type       types.DocumentType `form:"type" json:"type"`
	Department string             `form:"department" json:"department" validate:"omitempty,max=100"`
	Notes      string             `form:"notes" json:"notes"`
	Tags       []string           `form:"tags" json:"tags"`
	CustomerID *string            `form:"customer_id" json:"customer_id,omitempty"`
	PropertyID *string            `form:"property_id" json:"property_id,omitempty"`

	FileName string `form:"-" json:"-"`
	Data     []byte `form:"-" json:"-"`
}

func (r *UploadDocumentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if len(r.Data) == 0 {
		return ierr.NewError("file is required").
			WithHint("Please attach a file").
			Mark(ierr.ErrValidation)
	}
	if int64(len(r.Data)) > types.MaxDocumentSize {
		return ierr.NewErrorf("file of %d bytes exceeds the limit", len(r.Data)).
			WithHintf("Documents must be at most %d MB", types.MaxDocumentSize>>20).
			Mark(ierr.ErrValidation)
	}
	if r.Type == "" {
		r.Type = types.DocumentTypeOther
	}
	return r.Type.Validate()
}

// ToDocument builds the record; the caller sets the stored object fields
func (r *UploadDocumentRequest) ToDocument(sess *types.Session) *document.Document {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = r.FileName
	}
	doc := document.New(sess, name, r.Type)
	doc.Department = r.Department
	doc.Notes = r.Notes
	doc.Tags = normalizeTags(r.Tags)
	doc.CustomerID = r.CustomerID
	doc.PropertyID = r.PropertyID
	doc.Size = int64(len(r.Data))
	return doc
}

// UpdateDocumentRequest is a partial update. Nil fields are left alone.
type UpdateDocumentRequest struct {
	Name       *string               `json:"name" validate:"omitempty,notblank,max=255"`
	Status     *types.DocumentStatus `json:"status"`
	Department *string               `json:"department" validate:"omitempty,max=100"`
	Notes      *string               `json:"notes"`
	Tags       *[]string             `json:"tags"`
	CustomerID *string               `json:"customer_id"`
	PropertyID *string               `json:"property_id"`
}

func (r *UpdateDocumentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

// Apply copies the set fields onto doc
func (r *UpdateDocumentRequest) Apply(doc *document.Document) {
	if r.Name != nil {
		doc.Name = strings.TrimSpace(*r.Name)
	}
	if r.Status != nil {
		doc.Status = *r.Status
	}
	if r.Department != nil {
		doc.Department = *r.Department
	}
	if r.Notes != nil {
		doc.Notes = *r.Notes
	}
	if r.Tags != nil {
		doc.Tags = normalizeTags(*r.Tags)
	}
	if r.CustomerID != nil {
		doc.CustomerID = emptyToNil(*r.CustomerID)
	}
	if r.PropertyID != nil {
		doc.PropertyID = emptyToNil(*r.PropertyID)
	}
}

// GenerateDocumentRequest fills the active template of Type with the
// wizard values and signatures.
type GenerateDocumentRequest struct {
	Type       types.DocumentType     `json:"type" binding:"required"`
	Name       string                 `json:"name" validate:"omitempty,max=255"`
	Department string                 `json:"department" validate:"omitempty,max=100"`
	Notes      string                 `json:"notes"`
	Tags       []string               `json:"tags"`
	CustomerID *string                `json:"customer_id,omitempty"`
	PropertyID *string                `json:"property_id,omitempty"`
	Values     map[string]string      `json:"values"`
	Signatures map[pdf.Overlay]string `json:"signatures"`
}

func (r *GenerateDocumentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Type.IsGeneratable() {
		return ierr.NewErrorf("document type %q cannot be generated", r.Type).
			WithHintf("Only %v documents can be generated", types.GeneratableDocumentTypes).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToDocument starts a new version chain for the generated file
func (r *GenerateDocumentRequest) ToDocument(sess *types.Session, defaultName string) *document.Document {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = defaultName
	}
	doc := document.New(sess, name, r.Type)
	doc.Department = r.Department
	doc.Notes = r.Notes
	doc.Tags = normalizeTags(r.Tags)
	doc.CustomerID = r.CustomerID
	doc.PropertyID = r.PropertyID
	return doc
}

// CreateVersionRequest regenerates an existing document as its next version
type CreateVersionRequest struct {
	Values     map[string]string      `json:"values"`
	Signatures map[pdf.Overlay]string `json:"signatures"`
	Notes      *string                `json:"notes"`
}

func (r *CreateVersionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type DocumentResponse struct {
	*document.Document
}

// ListDocumentsResponse represents the response for listing documents
type ListDocumentsResponse = types.ListResponse[*DocumentResponse]

// ArchiveResponse is a document page plus the filter that produced it
type ArchiveResponse struct {
	ListDocumentsResponse
	Filter        archive.Filter `json:"filter"`
	ActiveFilters int            `json:"active_filters"`
	// Seq orders the responses of one session; a stale response was
	// overtaken by a newer request and should not be shown
	Seq   uint64 `json:"seq"`
	Stale bool   `json:"stale"`
}

// DocumentDownload is a stored file ready to be sent as an attachment
type DocumentDownload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func normalizeTags(tags []string) []string {
	out := lo.Uniq(lo.FilterMap(tags, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))
	if out == nil {
		return []string{}
	}
	return out
}

func emptyToNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return lo.ToPtr(s)
}
