package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type VoucherTypeResponse struct {
	ID                     string              `json:"id"`
	OrganizationID         string              `json:"organization_id"`
	Name                   string              `json:"name"`
	SessionName            string              `json:"session_name"`
	Description            *string             `json:"description,omitempty"`
	TotalSessions          int                 `json:"total_sessions"`
	BackupSessions         int                 `json:"backup_sessions"`
	SessionDurationMinutes int                 `json:"session_duration_minutes"`
	MaxClientsPerSession   int                 `json:"max_clients_per_session"`
	Frequency              entity.Frequency    `json:"frequency"`
	CustomDays             []int               `json:"custom_days,omitempty"`
	Price                  float64             `json:"price"`
	ValidityDays           int                 `json:"validity_days"`
	BookingRules           entity.BookingRules `json:"booking_rules"`
	IsActive               bool                `json:"is_active"`
	DeactivatedAt          *time.Time          `json:"deactivated_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
}

func VoucherTypeToResponse(vt *entity.VoucherType) VoucherTypeResponse {
	return VoucherTypeResponse{
		ID:                     vt.ID.String(),
		OrganizationID:         vt.OrganizationID.String(),
		Name:                   vt.Name,
		SessionName:            vt.SessionName,
		Description:            vt.Description,
		TotalSessions:          vt.TotalSessions,
		BackupSessions:         vt.BackupSessions,
		SessionDurationMinutes: vt.SessionDurationMinutes,
		MaxClientsPerSession:   vt.MaxClientsPerSession,
		Frequency:              vt.Frequency,
		CustomDays:             vt.CustomDays,
		Price:                  vt.Price,
		ValidityDays:           vt.ValidityDays,
		BookingRules:           vt.BookingRules,
		IsActive:               vt.IsActive,
		DeactivatedAt:          vt.DeactivatedAt,
		CreatedAt:              vt.CreatedAt,
	}
}
