package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationRescheduleApproved  NotificationType = "reschedule_approved"
	NotificationRescheduleRejected  NotificationType = "reschedule_rejected"
	NotificationPreparationRequired NotificationType = "preparation_required"
	NotificationBackupApplied       NotificationType = "backup_applied"
)

// Notification rows are the produced events; delivery is handled by an
// external consumer.
type Notification struct {
	BaseSimple
	VoucherID   *uuid.UUID       `db:"voucher_id"`
	RecipientID uuid.UUID        `db:"recipient_id"`
	Type        NotificationType `db:"type"`
	Title       string           `db:"title"`
	Message     string           `db:"message"`
	ReadAt      *time.Time       `db:"read_at"`
}
