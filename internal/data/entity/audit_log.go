package entity

import (
	"github.com/google/uuid"
)

// AuditLog rows are written inside the same transaction as the mutation they
// describe, so a rolled-back change leaves no audit trace.
type AuditLog struct {
	BaseSimple
	UserID         *uuid.UUID `db:"user_id"`
	OrganizationID *uuid.UUID `db:"organization_id"`
	Action         string     `db:"action"`
	EntityType     string     `db:"entity_type"`
	EntityID       *uuid.UUID `db:"entity_id"`
	OldValues      []byte     `db:"old_values"` // JSON
	NewValues      []byte     `db:"new_values"` // JSON
}
