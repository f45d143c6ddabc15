package types

import (
	"time"
)

// BaseModel is embedded by every persisted record. OwnerID is the isolation
// key: reads and writes always filter by tenant and owner together.
// Any changes to this model should be reflected in the migrations.
type BaseModel struct {
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
}

// GetDefaultBaseModel stamps ownership and audit fields from the session
func GetDefaultBaseModel(sess *Session) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		TenantID:  sess.TenantID,
		OwnerID:   sess.UserID,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: sess.UserID,
		UpdatedBy: sess.UserID,
	}
}

// Touch marks the record as updated by the session user
func (b *BaseModel) Touch(sess *Session) {
	b.UpdatedAt = time.Now().UTC()
	b.UpdatedBy = sess.UserID
}
