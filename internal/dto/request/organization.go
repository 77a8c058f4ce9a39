package request

type CreateOrganizationRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=200"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxID   *string `json:"tax_id,omitempty"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type UpdateOrganizationRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	TaxID   *string `json:"tax_id,omitempty"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}
