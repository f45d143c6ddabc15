package template

import (
	"time"

	"github.com/brokerdesk/brokerdesk/internal/types"
)

// Template is an uploaded fixed-layout PDF. Templates are never mutated; the
// most recent upload of a kind is the active one for its tenant.
type Template struct {
	ID         string             `db:"id" json:"id"`
	TenantID   string             `db:"tenant_id" json:"tenant_id"`
	Kind       types.DocumentType `db:"kind" json:"kind"`
	Name       string             `db:"name" json:"name"`
	StorageKey string             `db:"storage_key" json:"-"`
	URL        string             `db:"url" json:"url"`
	Size       int64              `db:"size" json:"size"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	CreatedBy  string             `db:"created_by" json:"created_by"`
}
