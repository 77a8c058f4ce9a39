package usecase

import (
	"context"
	"errors"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/dto/response"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, role *entity.UserRole) ([]response.UserResponse, error)
	Approve(ctx context.Context, approverID, orgID uuid.UUID, req *request.ApproveUserRequest) (*response.UserResponse, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]response.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateUserRequest) (*response.UserResponse, error) {
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

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ListByOrganization(ctx context.Context, orgID uuid.UUID, role *entity.UserRole) ([]response.UserResponse, error) {
	users, err := s.repo.User.List(ctx, repository.UserFilter{OrganizationID: &orgID, Role: role})
	if err != nil {
		return nil, err
	}

	responses := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, response.UserToResponse(u))
	}
	return responses, nil
}

// Approve activates a pending therapist or staff account and binds it to the
// approver's organization.
func (s *userService) Approve(ctx context.Context, approverID, orgID uuid.UUID, req *request.ApproveUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
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
	if user.Role != entity.RoleTherapist && user.Role != entity.RoleStaff {
		return nil, apperr.Validation("only therapist and staff accounts need approval")
	}
	if user.IsActive {
		return nil, apperr.Conflict("user is already approved")
	}

	now := time.Now()
	user.IsActive = true
	user.OrganizationID = &orgID
	user.ApprovedBy = &approverID
	user.ApprovedAt = &now
	user.UpdatedAt = now

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.User.Update(txCtx, user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &approverID, &orgID,
			"user.approve", "user", user.ID, nil, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User approved",
		zap.String("user_id", user.ID.String()),
		zap.String("approved_by", approverID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]response.NotificationResponse, error) {
	notifications, err := s.repo.Notification.ListByRecipient(ctx, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	return response.NotificationsToResponse(notifications), nil
}

func (s *userService) MarkNotificationRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := s.repo.Notification.MarkRead(ctx, notificationID, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("notification not found")
	}
	return err
}
