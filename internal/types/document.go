package types

import (
	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/samber/lo"
)

// DocumentType is the kind of a generated or uploaded document
type DocumentType string

const (
	DocumentTypeRentalAgreement DocumentType = "rental_agreement"
	DocumentTypeShowingForm     DocumentType = "showing_form"
	DocumentTypeEvictionNotice  DocumentType = "eviction_notice"
	DocumentTypeOther           DocumentType = "other"
)

// GeneratableDocumentTypes are the types that have a template layout
var GeneratableDocumentTypes = []DocumentType{
	DocumentTypeRentalAgreement,
	DocumentTypeShowingForm,
	DocumentTypeEvictionNotice,
}

func (t DocumentType) String() string {
	return string(t)
}

func (t DocumentType) Validate() error {
	allowed := append(lo.Map(GeneratableDocumentTypes, func(d DocumentType, _ int) string { return string(d) }), string(DocumentTypeOther))
	if !lo.Contains(allowed, string(t)) {
		return ierr.NewErrorf("invalid document type %q", t).
			WithHintf("Document type must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsGeneratable reports whether documents of this type can be produced from a template
func (t DocumentType) IsGeneratable() bool {
	return lo.Contains(GeneratableDocumentTypes, t)
}

// DocumentStatus is the mutable archive status of a document
type DocumentStatus string

const (
	DocumentStatusDraft            DocumentStatus = "draft"
	DocumentStatusPendingSignature DocumentStatus = "pending_signature"
	DocumentStatusSigned           DocumentStatus = "signed"
	DocumentStatusArchived         DocumentStatus = "archived"
)

func (s DocumentStatus) Validate() error {
	allowed := []DocumentStatus{
		DocumentStatusDraft,
		DocumentStatusPendingSignature,
		DocumentStatusSigned,
		DocumentStatusArchived,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewErrorf("invalid document status %q", s).
			WithHintf("Document status must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MaxDocumentSize is the upper bound of an archived document and of the size filter
const MaxDocumentSize int64 = 25 << 20

// DocumentSortFields are the columns a document list may be ordered by
var DocumentSortFields = []string{"created_at", "updated_at", "name", "size", "version"}

// DocumentFilter selects archive records. Every field is optional; unset fields do not filter.
type DocumentFilter struct {
	*QueryFilter
	*TimeRangeFilter

	Search       string         `json:"search,omitempty" form:"search"`
	Type         DocumentType   `json:"type,omitempty" form:"type"`
	Status       DocumentStatus `json:"status,omitempty" form:"status"`
	Department   string         `json:"department,omitempty" form:"department"`
	Tags         []string       `json:"tags,omitempty" form:"tags"`
	HasSignature *bool          `json:"has_signature,omitempty" form:"has_signature"`
	MinSize      *int64         `json:"min_size,omitempty" form:"min_size" validate:"omitempty,min=0"`
	MaxSize      *int64         `json:"max_size,omitempty" form:"max_size" validate:"omitempty,min=0"`
	LogicalID    string         `json:"logical_id,omitempty" form:"logical_id"`
}

// NewDocumentFilter creates a new document filter with default paging
func NewDocumentFilter() *DocumentFilter {
	return &DocumentFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// Validate validates the document filter
func (f *DocumentFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if err := f.QueryFilter.ValidateSort(DocumentSortFields...); err != nil {
		return err
	}
	if err := f.TimeRangeFilter.Validate(); err != nil {
		return err
	}
	if f.Type != "" {
		if err := f.Type.Validate(); err != nil {
			return err
		}
	}
	if f.Status != "" {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.MinSize != nil && f.MaxSize != nil && *f.MaxSize < *f.MinSize {
		return ierr.NewError("max_size must not be less than min_size").
			WithHint("Maximum size must not be less than minimum size").
			Mark(ierr.ErrValidation)
	}
	return nil
}
