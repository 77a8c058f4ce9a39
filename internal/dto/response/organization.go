package response

import (
	"time"

	"therapy-vouchers/internal/data/entity"
)

type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	TaxID     *string   `json:"tax_id,omitempty"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func OrganizationToResponse(o *entity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Slug:      o.Slug,
		Address:   o.Address,
		Phone:     o.Phone,
		Email:     o.Email,
		TaxID:     o.TaxID,
		LogoURL:   o.LogoURL,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
	}
}
