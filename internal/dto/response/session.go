package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type SessionResponse struct {
	ID                string               `json:"id"`
	VoucherID         string               `json:"voucher_id"`
	ClientID          string               `json:"client_id"`
	TherapistID       string               `json:"therapist_id"`
	OrganizationID    string               `json:"organization_id"`
	ScheduledDate     string               `json:"scheduled_date"`
	ScheduledTime     string               `json:"scheduled_time"`
	DurationMinutes   int                  `json:"duration_minutes"`
	SessionType       string               `json:"session_type"`
	Location          *string              `json:"location,omitempty"`
	Status            entity.SessionStatus `json:"status"`
	IsBackupSession   bool                 `json:"is_backup_session"`
	OriginalSessionID *string              `json:"original_session_id,omitempty"`
	TherapistNotes    *string              `json:"therapist_notes,omitempty"`
	PreparationSentAt *time.Time           `json:"preparation_sent_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

func SessionToResponse(s *entity.TherapySession) SessionResponse {
	resp := SessionResponse{
		ID:                s.ID.String(),
		VoucherID:         s.VoucherID.String(),
		ClientID:          s.ClientID.String(),
		TherapistID:       s.TherapistID.String(),
		OrganizationID:    s.OrganizationID.String(),
		ScheduledDate:     s.ScheduledDate.Format("2006-01-02"),
		ScheduledTime:     s.ScheduledTime,
		DurationMinutes:   s.DurationMinutes,
		SessionType:       s.SessionType,
		Location:          s.Location,
		Status:            s.Status,
		IsBackupSession:   s.IsBackupSession,
		TherapistNotes:    s.TherapistNotes,
		PreparationSentAt: s.PreparationSentAt,
		CreatedAt:         s.CreatedAt,
	}
	if s.OriginalSessionID != nil {
		originalID := s.OriginalSessionID.String()
		resp.OriginalSessionID = &originalID
	}
	return resp
}

// TherapistClientResponse is one row of a therapist's client roster: the
// client together with the voucher their sessions run on.
type TherapistClientResponse struct {
	Client                  UserResponse `json:"client"`
	VoucherID               string       `json:"voucher_id"`
	SessionsRemaining       int          `json:"sessions_remaining"`
	BackupSessionsRemaining int          `json:"backup_sessions_remaining"`
	CompletedSessions       int          `json:"completed_sessions"`
	NextSessionDate         *string      `json:"next_session_date,omitempty"`
	NextSessionTime         *string      `json:"next_session_time,omitempty"`
}

func SessionsToResponse(sessions []*entity.TherapySession) []SessionResponse {
	responses := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		responses = append(responses, SessionToResponse(s))
	}
	return responses
}
