package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type RescheduleResponse struct {
	ID              string                  `json:"id"`
	SessionID       string                  `json:"session_id"`
	RequestedBy     string                  `json:"requested_by"`
	CurrentDate     string                  `json:"current_date"`
	CurrentTime     string                  `json:"current_time"`
	PreferredDate   string                  `json:"preferred_date"`
	PreferredTime   string                  `json:"preferred_time"`
	AlternativeDate *string                 `json:"alternative_date,omitempty"`
	AlternativeTime *string                 `json:"alternative_time,omitempty"`
	Reason          string                  `json:"reason"`
	Status          entity.RescheduleStatus `json:"status"`
	ResponseMessage *string                 `json:"response_message,omitempty"`
	NewSessionID    *string                 `json:"new_session_id,omitempty"`
	RespondedAt     *time.Time              `json:"responded_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func RescheduleToResponse(r *entity.RescheduleRequest) RescheduleResponse {
	resp := RescheduleResponse{
		ID:              r.ID.String(),
		SessionID:       r.SessionID.String(),
		RequestedBy:     r.RequestedBy.String(),
		CurrentDate:     r.CurrentDate.Format("2006-01-02"),
		CurrentTime:     r.CurrentTime,
		PreferredDate:   r.PreferredDate.Format("2006-01-02"),
		PreferredTime:   r.PreferredTime,
		AlternativeTime: r.AlternativeTime,
		Reason:          r.Reason,
		Status:          r.Status,
		ResponseMessage: r.ResponseMessage,
		RespondedAt:     r.RespondedAt,
		CreatedAt:       r.CreatedAt,
	}
	if r.AlternativeDate != nil {
		altDate := r.AlternativeDate.Format("2006-01-02")
		resp.AlternativeDate = &altDate
	}
	if r.NewSessionID != nil {
		newID := r.NewSessionID.String()
		resp.NewSessionID = &newID
	}
	return resp
}

func ReschedulesToResponse(requests []*entity.RescheduleRequest) []RescheduleResponse {
	responses := make([]RescheduleResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, RescheduleToResponse(r))
	}
	return responses
}
