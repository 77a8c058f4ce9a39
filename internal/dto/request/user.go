package request

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
}

type ApproveUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid4"`
}

type AdminCreateUserRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Role           string  `json:"role" validate:"required,oneof=client therapist organization_owner staff admin"`
	OrganizationID *string `json:"organization_id,omitempty" validate:"omitempty,uuid4"`
}

type AdminUpdateUserRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Role           *string `json:"role,omitempty" validate:"omitempty,oneof=client therapist organization_owner staff admin"`
	OrganizationID *string `json:"organization_id,omitempty" validate:"omitempty,uuid4"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

type AdminApproveUserRequest struct {
	UserID         string `json:"user_id" validate:"required,uuid4"`
	OrganizationID string `json:"organization_id" validate:"required,uuid4"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
