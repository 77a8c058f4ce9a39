package response

import (
	"encoding/json"
	"time"

	"therapy-vouchers/internal/data/entity"
)

type AuditLogResponse struct {
	ID             string          `json:"id"`
	UserID         *string         `json:"user_id,omitempty"`
	OrganizationID *string         `json:"organization_id,omitempty"`
	Action         string          `json:"action"`
	EntityType     string          `json:"entity_type"`
	EntityID       *string         `json:"entity_id,omitempty"`
	OldValues      json.RawMessage `json:"old_values,omitempty"`
	NewValues      json.RawMessage `json:"new_values,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func AuditLogToResponse(a *entity.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         a.ID.String(),
		Action:     a.Action,
		EntityType: a.EntityType,
		OldValues:  a.OldValues,
		NewValues:  a.NewValues,
		CreatedAt:  a.CreatedAt,
	}
	if a.UserID != nil {
		userID := a.UserID.String()
		resp.UserID = &userID
	}
	if a.OrganizationID != nil {
		orgID := a.OrganizationID.String()
		resp.OrganizationID = &orgID
	}
	if a.EntityID != nil {
		entityID := a.EntityID.String()
		resp.EntityID = &entityID
	}
	return resp
}

func AuditLogsToResponse(logs []*entity.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(logs))
	for _, a := range logs {
		responses = append(responses, AuditLogToResponse(a))
	}
	return responses
}
