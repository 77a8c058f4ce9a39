package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type VoucherResponse struct {
	ID                      string               `json:"id"`
	ClientID                *string              `json:"client_id,omitempty"`
	VoucherTypeID           string               `json:"voucher_type_id"`
	OrganizationID          string               `json:"organization_id"`
	PurchaseDate            time.Time            `json:"purchase_date"`
	ValidUntil              time.Time            `json:"valid_until"`
	ActivatedAt             *time.Time           `json:"activated_at,omitempty"`
	TotalSessions           int                  `json:"total_sessions"`
	UsedSessions            int                  `json:"used_sessions"`
	SessionsRemaining       int                  `json:"sessions_remaining"`
	BackupSessions          int                  `json:"backup_sessions"`
	UsedBackupSessions      int                  `json:"used_backup_sessions"`
	BackupSessionsRemaining int                  `json:"backup_sessions_remaining"`
	Status                  entity.VoucherStatus `json:"status"`
	PaymentMethod           string               `json:"payment_method"`
	PaymentStatus           entity.PaymentStatus `json:"payment_status"`
	PaymentAmount           float64              `json:"payment_amount"`
	InvoiceNumber           string               `json:"invoice_number"`
}

type VoucherCodeResponse struct {
	ID       string            `json:"id"`
	Code     string            `json:"code"`
	IsBackup bool              `json:"is_backup"`
	Status   entity.CodeStatus `json:"status"`
}

// PurchaseResponse is returned once, right after purchase; it is the only
// place all generated codes are handed out together.
type PurchaseResponse struct {
	Voucher     VoucherResponse       `json:"voucher"`
	Codes       []VoucherCodeResponse `json:"codes"`
	BackupCodes []VoucherCodeResponse `json:"backup_codes"`
}

// VoucherStatusResponse is the consolidated view returned by the status
// endpoint: counters plus code and session breakdowns.
type VoucherStatusResponse struct {
	Voucher           VoucherResponse       `json:"voucher"`
	Codes             []VoucherCodeResponse `json:"codes"`
	UpcomingSessions  []SessionResponse     `json:"upcoming_sessions"`
	CompletedSessions int                   `json:"completed_sessions"`
	NoShowSessions    int                   `json:"no_show_sessions"`
}

type ReservationResponse struct {
	ID          string            `json:"id"`
	VoucherID   string            `json:"voucher_id"`
	TherapistID string            `json:"therapist_id"`
	ClientID    string            `json:"client_id"`
	StartDate   time.Time         `json:"start_date"`
	Sessions    []SessionResponse `json:"sessions"`
}

func VoucherToResponse(v *entity.Voucher) VoucherResponse {
	resp := VoucherResponse{
		ID:                      v.ID.String(),
		VoucherTypeID:           v.VoucherTypeID.String(),
		OrganizationID:          v.OrganizationID.String(),
		PurchaseDate:            v.PurchaseDate,
		ValidUntil:              v.ValidUntil,
		ActivatedAt:             v.ActivatedAt,
		TotalSessions:           v.TotalSessions,
		UsedSessions:            v.UsedSessions,
		SessionsRemaining:       v.SessionsRemaining(),
		BackupSessions:          v.BackupSessions,
		UsedBackupSessions:      v.UsedBackupSessions,
		BackupSessionsRemaining: v.BackupSessionsRemaining(),
		Status:                  v.Status,
		PaymentMethod:           v.PaymentMethod,
		PaymentStatus:           v.PaymentStatus,
		PaymentAmount:           v.PaymentAmount,
		InvoiceNumber:           v.InvoiceNumber,
	}
	if v.ClientID != nil {
		clientID := v.ClientID.String()
		resp.ClientID = &clientID
	}
	return resp
}

func VoucherCodeToResponse(c *entity.VoucherCode) VoucherCodeResponse {
	return VoucherCodeResponse{
		ID:       c.ID.String(),
		Code:     c.Code,
		IsBackup: c.IsBackup,
		Status:   c.Status,
	}
}
