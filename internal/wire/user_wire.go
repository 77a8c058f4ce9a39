package wire

import (
	"therapy-vouchers/internal/adaptor"
	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/pkg/middleware"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile, notification, and member management routes
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))

		r.Get("/api/users/me", userHandler.GetProfile)
		r.Put("/api/users/me", userHandler.UpdateProfile)

		r.Get("/api/notifications", userHandler.ListNotifications)           // GET /api/notifications?unread=true
		r.Post("/api/notifications/{id}/read", userHandler.MarkNotificationRead) // POST /api/notifications/{notification-id}/read
	})

	// ==================== ORGANIZATION MEMBER ROUTES ====================
	// Member listing is open to owners and staff; approval is owner-only.
	r.With(
		middleware.Auth(repo.AuthSession, repo.User, log),
		middleware.RequireRole(log, entity.RoleOrganizationOwner, entity.RoleStaff),
	).Get("/api/organization/members", userHandler.ListMembers)

	r.With(
		middleware.Auth(repo.AuthSession, repo.User, log),
		middleware.RequireRole(log, entity.RoleOrganizationOwner),
	).Post("/api/organization/members/approve", userHandler.Approve)
}
