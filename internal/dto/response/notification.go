package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	VoucherID *string                 `json:"voucher_id,omitempty"`
	Type      entity.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	ReadAt    *time.Time              `json:"read_at,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.VoucherID != nil {
		voucherID := n.VoucherID.String()
		resp.VoucherID = &voucherID
	}
	return resp
}

func NotificationsToResponse(notifications []*entity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NotificationToResponse(n))
	}
	return responses
}
