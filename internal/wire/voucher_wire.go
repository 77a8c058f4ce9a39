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

// wireVoucher configures voucher lifecycle routes
func wireVoucher(
	r chi.Router,
	voucherHandler *adaptor.VoucherHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// All voucher routes require authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))

		r.Get("/api/vouchers", voucherHandler.List)                  // GET /api/vouchers?status=active
		r.Get("/api/vouchers/{id}/status", voucherHandler.GetStatus) // GET /api/vouchers/{voucher-id}/status

		// Clients purchase for themselves; front-desk staff purchase on
		// behalf of walk-ins.
		r.With(middleware.RequireRole(log, entity.RoleClient, entity.RoleOrganizationOwner, entity.RoleStaff)).
			Post("/api/vouchers/purchase", voucherHandler.Purchase)

		// Activation and reservation are client actions
		r.With(middleware.RequireRole(log, entity.RoleClient)).
			Post("/api/vouchers/activate/{code}", voucherHandler.Activate)
		r.With(middleware.RequireRole(log, entity.RoleClient)).
			Post("/api/reservations", voucherHandler.CreateReservation)

		// Consuming a session code happens after the session took place
		r.With(middleware.RequireRole(log, entity.RoleTherapist, entity.RoleStaff, entity.RoleOrganizationOwner)).
			Post("/api/vouchers/{id}/consume", voucherHandler.ConsumeRegular)
		r.With(middleware.RequireRole(log, entity.RoleTherapist, entity.RoleStaff, entity.RoleOrganizationOwner)).
			Post("/api/vouchers/{id}/consume-backup", voucherHandler.ConsumeBackup)
	})
}
