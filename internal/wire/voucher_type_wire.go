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

// wireVoucherType configures voucher-type catalog and management routes
func wireVoucherType(
	r chi.Router,
	vtHandler *adaptor.VoucherTypeHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/voucher-types", vtHandler.ListAvailable)    // GET /api/voucher-types
	r.Get("/api/voucher-types/{id}", vtHandler.GetByID)     // GET /api/voucher-types/{type-id}

	// ==================== MANAGEMENT ROUTES ====================
	// Catalog management requires an organization owner or staff account.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))
		r.Use(middleware.RequireRole(log, entity.RoleOrganizationOwner, entity.RoleStaff))

		r.Post("/api/voucher-types", vtHandler.Create)
		r.Put("/api/voucher-types/{id}", vtHandler.Update)
		r.Delete("/api/voucher-types/{id}", vtHandler.Deactivate)
		r.Get("/api/organization/voucher-types", vtHandler.ListMine) // includes inactive types
	})
}
