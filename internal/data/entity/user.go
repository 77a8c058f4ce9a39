package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleClient            UserRole = "client"
	RoleTherapist         UserRole = "therapist"
	RoleOrganizationOwner UserRole = "organization_owner"
	RoleStaff             UserRole = "staff"
	RoleAdmin             UserRole = "admin"
)

type User struct {
	Base
	Email               string     `db:"email"`
	Name                string     `db:"name"`
	PasswordHash        string     `db:"password_hash"`
	Phone               *string    `db:"phone"`
	Role                UserRole   `db:"role"`
	OrganizationID      *uuid.UUID `db:"organization_id"`
	IsOrganizationOwner bool       `db:"is_organization_owner"`
	IsActive            bool       `db:"is_active"`
	ApprovedBy          *uuid.UUID `db:"approved_by"`
	ApprovedAt          *time.Time `db:"approved_at"`
	LastLogin           *time.Time `db:"last_login"`
}
