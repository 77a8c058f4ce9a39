package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by soft-deletable aggregates.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// BaseSimple is for append-only rows (audit logs, notifications) that are
// never updated after insert.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
