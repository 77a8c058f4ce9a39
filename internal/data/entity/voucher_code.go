package entity

import (
	"github.com/google/uuid"
)

type CodeStatus string

const (
	CodeStatusActive  CodeStatus = "active"
	CodeStatusUsed    CodeStatus = "used"
	CodeStatusExpired CodeStatus = "expired"
)

// VoucherCode belongs to exactly one voucher and is deleted with it. Regular
// codes are consumed one per scheduled session; backup codes only when
// substituting a missed session.
type VoucherCode struct {
	BaseSimple
	VoucherID uuid.UUID  `db:"voucher_id"`
	Code      string     `db:"code"`
	IsBackup  bool       `db:"is_backup"`
	Status    CodeStatus `db:"status"`
	UsedCount int        `db:"used_count"`
	MaxUses   int        `db:"max_uses"`
}
