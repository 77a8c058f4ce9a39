package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusScheduled   SessionStatus = "scheduled"
	SessionStatusConfirmed   SessionStatus = "confirmed"
	SessionStatusCompleted   SessionStatus = "completed"
	SessionStatusCancelled   SessionStatus = "cancelled"
	SessionStatusRescheduled SessionStatus = "rescheduled"
	SessionStatusNoShow      SessionStatus = "no_show"
)

// TherapySession rows are created only by the recurrence scheduler (initial
// series), the backup substitution, or an accepted reschedule — never ad hoc.
type TherapySession struct {
	Base
	ReservationID      *uuid.UUID    `db:"reservation_id"`
	VoucherID          uuid.UUID     `db:"voucher_id"`
	ClientID           uuid.UUID     `db:"client_id"`
	TherapistID        uuid.UUID     `db:"therapist_id"`
	OrganizationID     uuid.UUID     `db:"organization_id"`
	ScheduledDate      time.Time     `db:"scheduled_date"`
	ScheduledTime      string        `db:"scheduled_time"` // "HH:MM"
	ActualDate         *time.Time    `db:"actual_date"`
	ActualTime         *string       `db:"actual_time"`
	DurationMinutes    int           `db:"duration_minutes"`
	SessionType        string        `db:"session_type"`
	Location           *string       `db:"location"`
	Status             SessionStatus `db:"status"`
	IsBackupSession    bool          `db:"is_backup_session"`
	OriginalSessionID  *uuid.UUID    `db:"original_session_id"`
	TherapistNotes     *string       `db:"therapist_notes"`
	PreparationMessage *string       `db:"preparation_message"`
	PreparationSentAt  *time.Time    `db:"preparation_sent_at"`
}

// CanTransitionTo enforces the session lifecycle. Scheduled and confirmed are
// the only live states; everything else is terminal.
func (s *TherapySession) CanTransitionTo(next SessionStatus) bool {
	switch s.Status {
	case SessionStatusScheduled:
		switch next {
		case SessionStatusConfirmed, SessionStatusCompleted, SessionStatusCancelled,
			SessionStatusRescheduled, SessionStatusNoShow:
			return true
		}
	case SessionStatusConfirmed:
		switch next {
		case SessionStatusCompleted, SessionStatusCancelled,
			SessionStatusRescheduled, SessionStatusNoShow:
			return true
		}
	}
	return false
}

// IsUpcoming reports whether the session is live and not in the past.
func (s *TherapySession) IsUpcoming(today time.Time) bool {
	if s.Status != SessionStatusScheduled && s.Status != SessionStatusConfirmed {
		return false
	}
	return !s.ScheduledDate.Before(today)
}
