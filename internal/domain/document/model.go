package document

import (
	"strings"

	ierr "github.com/brokerdesk/brokerdesk/internal/errors"
	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Document is an archive record. Generated documents form a version chain
// sharing LogicalID; uploads start a chain of their own.
type Document struct {
	ID string `db:"id" json:"id"`

	// LogicalID groups every version of the same document
	LogicalID string `db:"logical_id" json:"logical_id"`

	// Version starts at 1 and increases by one per new version
	Version int `db:"version" json:"version"`

	Name         string               `db:"name" json:"name"`
	Type         types.DocumentType   `db:"type" json:"type"`
	Status       types.DocumentStatus `db:"status" json:"status"`
	Department   string               `db:"department" json:"department"`
	Notes        string               `db:"notes" json:"notes"`
	Tags         []string             `db:"tags" json:"tags"`
	HasSignature bool                 `db:"has_signature" json:"has_signature"`

	// Size of the stored object in bytes
	Size        int64  `db:"size" json:"size"`
	ContentType string `db:"content_type" json:"content_type"`

	// StorageKey is the object key; FileURL is what Upload returned for it
	StorageKey string `db:"storage_key" json:"-"`
	FileURL    string `db:"file_url" json:"file_url"`

	CustomerID *string `db:"customer_id" json:"customer_id,omitempty"`
	PropertyID *string `db:"property_id" json:"property_id,omitempty"`

	types.BaseModel
}

// New starts a fresh version chain owned by the session user
func New(sess *types.Session, name string, docType types.DocumentType) *Document {
	return &Document{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		LogicalID:   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_LOGICAL_DOCUMENT),
		Version:     1,
		Name:        name,
		Type:        docType,
		Status:      types.DocumentStatusDraft,
		Tags:        []string{},
		ContentType: "application/pdf",
		BaseModel:   types.GetDefaultBaseModel(sess),
	}
}

// NextVersion returns the record for the version after latest. Metadata is
// carried over; the caller fills in the stored object.
func (d *Document) NextVersion(sess *types.Session) *Document {
	next := &Document{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_DOCUMENT),
		LogicalID:   d.LogicalID,
		Version:     d.Version + 1,
		Name:        d.Name,
		Type:        d.Type,
		Status:      types.DocumentStatusDraft,
		Department:  d.Department,
		Notes:       d.Notes,
		Tags:        append([]string(nil), d.Tags...),
		ContentType: d.ContentType,
		CustomerID:  d.CustomerID,
		PropertyID:  d.PropertyID,
		BaseModel:   types.GetDefaultBaseModel(sess),
	}
	return next
}

func (d *Document) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ierr.NewError("document name is required").
			WithHint("Document name is required").
			Mark(ierr.ErrValidation)
	}
	if err := d.Type.Validate(); err != nil {
		return err
	}
	if err := d.Status.Validate(); err != nil {
		return err
	}
	if d.Version < 1 {
		return ierr.NewErrorf("invalid version %d", d.Version).
			WithHint("Document version must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if d.Size < 0 || d.Size > types.MaxDocumentSize {
		return ierr.NewErrorf("document size %d out of range", d.Size).
			WithHintf("Documents must be at most %d MB", types.MaxDocumentSize>>20).
			Mark(ierr.ErrValidation)
	}
	return nil
}
