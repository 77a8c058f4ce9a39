package entity

import (
	"time"

	"github.com/google/uuid"
)

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusAccepted RescheduleStatus = "accepted"
	RescheduleStatusRejected RescheduleStatus = "rejected"
)

// RescheduleRequest captures a client's proposal to move one session. The
// current date/time fields are a snapshot taken at request time and never
// updated afterwards.
type RescheduleRequest struct {
	Base
	SessionID       uuid.UUID        `db:"session_id"`
	RequestedBy     uuid.UUID        `db:"requested_by"`
	CurrentDate     time.Time        `db:"current_date"`
	CurrentTime     string           `db:"current_time"`
	PreferredDate   time.Time        `db:"preferred_date"`
	PreferredTime   string           `db:"preferred_time"`
	AlternativeDate *time.Time       `db:"alternative_date"`
	AlternativeTime *string          `db:"alternative_time"`
	Reason          string           `db:"reason"`
	Status          RescheduleStatus `db:"status"`
	RespondedBy     *uuid.UUID       `db:"responded_by"`
	ResponseMessage *string          `db:"response_message"`
	NewSessionID    *uuid.UUID       `db:"new_session_id"`
	RespondedAt     *time.Time       `db:"responded_at"`
}

func (r *RescheduleRequest) IsResolved() bool {
	return r.Status != RescheduleStatusPending
}
