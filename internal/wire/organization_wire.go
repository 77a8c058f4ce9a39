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

// wireOrganization configures organization routes
func wireOrganization(
	r chi.Router,
	orgHandler *adaptor.OrganizationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/organizations", orgHandler.List)          // GET /api/organizations?active=true
	r.Get("/api/organizations/{id}", orgHandler.GetByID)  // GET /api/organizations/{org-id}

	// ==================== PROTECTED ROUTES ====================
	// Any authenticated user may found an organization; they become its owner.
	r.With(middleware.Auth(repo.AuthSession, repo.User, log)).
		Post("/api/organizations", orgHandler.Create)

	r.With(
		middleware.Auth(repo.AuthSession, repo.User, log),
		middleware.RequireRole(log, entity.RoleOrganizationOwner),
	).Put("/api/organization", orgHandler.Update)

	r.Group(func(owner chi.Router) {
		owner.Use(middleware.Auth(repo.AuthSession, repo.User, log))
		owner.Use(middleware.RequireRole(log, entity.RoleOrganizationOwner))

		owner.Get("/api/organization/audit-logs", orgHandler.ListAuditLogs)                           // GET /api/organization/audit-logs?page=1&per_page=20
		owner.Get("/api/organization/audit-logs/{entityType}/{entityID}", orgHandler.GetEntityHistory) // GET /api/organization/audit-logs/voucher/{id}
	})
}
