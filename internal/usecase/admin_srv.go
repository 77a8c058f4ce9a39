package usecase

import (
	"context"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/dto/response"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminService covers platform-wide administration: it is not scoped to an
// organization the way the owner-facing services are.
type AdminService interface {
	ListUsers(ctx context.Context, role *entity.UserRole, orgID *uuid.UUID, isActive *bool) ([]response.UserResponse, error)
	CreateUser(ctx context.Context, adminID uuid.UUID, req *request.AdminCreateUserRequest) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, adminID, userID uuid.UUID, req *request.AdminUpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
	ApproveUser(ctx context.Context, adminID uuid.UUID, req *request.AdminApproveUserRequest) (*response.UserResponse, error)
	SetPassword(ctx context.Context, adminID, userID uuid.UUID, req *request.SetPasswordRequest) error
	ListOrganizations(ctx context.Context) ([]response.OrganizationResponse, error)
	DeactivateOrganization(ctx context.Context, adminID, orgID uuid.UUID) (*response.OrganizationResponse, error)
	ListVouchers(ctx context.Context, orgID *uuid.UUID, status *entity.VoucherStatus) ([]response.VoucherResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAdminService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) ListUsers(ctx context.Context, role *entity.UserRole, orgID *uuid.UUID, isActive *bool) ([]response.UserResponse, error) {
	users, err := s.repo.User.List(ctx, repository.UserFilter{
		OrganizationID: orgID,
		Role:           role,
		IsActive:       isActive,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, response.UserToResponse(u))
	}
	return responses, nil
}

// CreateUser provisions an account directly, already active. Unlike
// self-registration there is no approval step.
func (s *adminService) CreateUser(ctx context.Context, adminID uuid.UUID, req *request.AdminCreateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email is already registered")
	}

	var orgID *uuid.UUID
	if req.OrganizationID != nil {
		id, err := uuid.Parse(*req.OrganizationID)
		if err != nil {
			return nil, apperr.Validation("invalid organization ID")
		}
		org, err := s.repo.Organization.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if org == nil {
			return nil, apperr.NotFound("organization not found")
		}
		orgID = &id
	}

	hashed, err := utils.HashPassword(req.Password, s.config.Auth.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Email:          req.Email,
		Name:           req.Name,
		PasswordHash:   hashed,
		Phone:          req.Phone,
		Role:           entity.UserRole(req.Role),
		OrganizationID: orgID,
		IsActive:       true,
		ApprovedBy:     &adminID,
		ApprovedAt:     &now,
	}

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.Create(txCtx, user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &adminID, orgID,
			"user.create", "user", user.ID, nil, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User created by admin",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) UpdateUser(ctx context.Context, adminID, userID uuid.UUID, req *request.AdminUpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	old := *user

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != nil {
		user.Role = entity.UserRole(*req.Role)
	}
	if req.OrganizationID != nil {
		id, err := uuid.Parse(*req.OrganizationID)
		if err != nil {
			return nil, apperr.Validation("invalid organization ID")
		}
		user.OrganizationID = &id
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.Update(txCtx, user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &adminID, user.OrganizationID,
			"user.update", "user", user.ID, &old, user)
	})
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return apperr.Validation("cannot delete your own account")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.Delete(txCtx, userID); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &adminID, user.OrganizationID,
			"user.delete", "user", userID, user, nil)
	})
	if err != nil {
		return err
	}

	s.log.Info("User deleted by admin", zap.String("user_id", userID.String()))
	return nil
}

// ApproveUser activates a pending account and binds it to the given
// organization. Owners approve within their own organization; admins can
// approve into any.
func (s *adminService) ApproveUser(ctx context.Context, adminID uuid.UUID, req *request.AdminApproveUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		return nil, apperr.Validation("invalid organization ID")
	}
	org, err := s.repo.Organization.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperr.Validation("invalid user ID")
	}
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	if user.IsActive {
		return nil, apperr.Conflict("user is already approved")
	}

	now := time.Now()
	user.IsActive = true
	user.OrganizationID = &orgID
	user.ApprovedBy = &adminID
	user.ApprovedAt = &now
	user.UpdatedAt = now

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.Update(txCtx, user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &adminID, &orgID,
			"user.approve", "user", user.ID, nil, user)
	})
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *adminService) SetPassword(ctx context.Context, adminID, userID uuid.UUID, req *request.SetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	hashed, err := utils.HashPassword(req.NewPassword, s.config.Auth.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	s.log.Info("Password reset by admin",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", adminID.String()),
	)
	return nil
}

// ListOrganizations returns every organization, active or not.
func (s *adminService) ListOrganizations(ctx context.Context) ([]response.OrganizationResponse, error) {
	orgs, err := s.repo.Organization.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	responses := make([]response.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		responses = append(responses, response.OrganizationToResponse(o))
	}
	return responses, nil
}

// DeactivateOrganization soft-deletes: the organization and its voucher
// types stop being offered, existing vouchers stay serviceable.
func (s *adminService) DeactivateOrganization(ctx context.Context, adminID, orgID uuid.UUID) (*response.OrganizationResponse, error) {
	org, err := s.repo.Organization.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}
	if !org.IsActive {
		return nil, apperr.Conflict("organization is already deactivated")
	}
	old := *org

	org.IsActive = false
	org.UpdatedAt = time.Now()

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Organization.Update(txCtx, org); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &adminID, &org.ID,
			"organization.deactivate", "organization", org.ID, &old, org)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Organization deactivated", zap.String("organization_id", orgID.String()))

	resp := response.OrganizationToResponse(org)
	return &resp, nil
}

func (s *adminService) ListVouchers(ctx context.Context, orgID *uuid.UUID, status *entity.VoucherStatus) ([]response.VoucherResponse, error) {
	vouchers, err := s.repo.Voucher.List(ctx, repository.VoucherFilter{
		OrganizationID: orgID,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]response.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		responses = append(responses, response.VoucherToResponse(v))
	}
	return responses, nil
}
