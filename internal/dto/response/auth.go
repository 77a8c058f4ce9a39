package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Phone          *string         `json:"phone,omitempty"`
	Role           entity.UserRole `json:"role"`
	OrganizationID *string         `json:"organization_id,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func UserToResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.OrganizationID != nil {
		orgID := u.OrganizationID.String()
		resp.OrganizationID = &orgID
	}
	return resp
}
