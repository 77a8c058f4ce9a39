package entity

import (
	"time"

	"github.com/google/uuid"
)

type VoucherStatus string

const (
	VoucherStatusPending   VoucherStatus = "pending"
	VoucherStatusActive    VoucherStatus = "active"
	VoucherStatusExpired   VoucherStatus = "expired"
	VoucherStatusCancelled VoucherStatus = "cancelled"
	VoucherStatusCompleted VoucherStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Voucher is a purchased session package. Remaining counts are always derived
// from the stored counters, never cached separately.
type Voucher struct {
	Base
	ClientID           *uuid.UUID    `db:"client_id"`
	VoucherTypeID      uuid.UUID     `db:"voucher_type_id"`
	OrganizationID     uuid.UUID     `db:"organization_id"`
	PurchaseDate       time.Time     `db:"purchase_date"`
	ValidUntil         time.Time     `db:"valid_until"`
	ActivatedAt        *time.Time    `db:"activated_at"`
	TotalSessions      int           `db:"total_sessions"`
	UsedSessions       int           `db:"used_sessions"`
	BackupSessions     int           `db:"backup_sessions"`
	UsedBackupSessions int           `db:"used_backup_sessions"`
	Status             VoucherStatus `db:"status"`
	PaymentMethod      string        `db:"payment_method"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	PaymentAmount      float64       `db:"payment_amount"`
	PaymentDate        *time.Time    `db:"payment_date"`
	InvoiceNumber      string        `db:"invoice_number"`
}

func (v *Voucher) SessionsRemaining() int {
	return v.TotalSessions - v.UsedSessions
}

func (v *Voucher) BackupSessionsRemaining() int {
	return v.BackupSessions - v.UsedBackupSessions
}

// RecomputeStatus derives the voucher status from counters and expiry.
// Cancelled is sticky; completed wins over expired.
func (v *Voucher) RecomputeStatus(now time.Time) {
	if v.Status == VoucherStatusCancelled {
		return
	}
	if v.UsedSessions >= v.TotalSessions {
		v.Status = VoucherStatusCompleted
		return
	}
	if now.After(v.ValidUntil) {
		v.Status = VoucherStatusExpired
		return
	}
	if v.ClientID != nil {
		v.Status = VoucherStatusActive
	} else {
		v.Status = VoucherStatusPending
	}
}
