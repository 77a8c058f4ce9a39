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

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress *string) (*response.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email is already registered")
	}

	hashed, err := utils.HashPassword(req.Password, s.config.Auth.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	// Therapists and staff start inactive and need approval by their
	// organization before they can log in.
	role := entity.UserRole(req.Role)
	active := role == entity.RoleClient

	now := time.Now()
	user := &entity.User{
		Base:         entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     active,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress *string) (*response.LoginResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperr.Forbidden("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("account is not active")
	}

	now := time.Now()
	session := &entity.AuthSession{
		BaseSimple: entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now},
		UserID:     user.ID,
		Token:      utils.GenerateSessionToken(),
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  now.Add(time.Duration(s.config.Auth.SessionExpiryHours) * time.Hour),
	}
	if err := s.repo.AuthSession.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.repo.User.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &response.LoginResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return apperr.Validation("invalid token")
	}
	return s.repo.AuthSession.Revoke(ctx, token)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
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
	if !utils.CheckPassword(req.OldPassword, user.PasswordHash) {
		return apperr.Forbidden("current password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword, s.config.Auth.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return err
	}

	return s.repo.User.UpdatePassword(ctx, userID, hashed)
}
