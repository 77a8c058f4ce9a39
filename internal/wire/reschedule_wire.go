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

// wireReschedule configures reschedule request routes
func wireReschedule(
	r chi.Router,
	rescheduleHandler *adaptor.RescheduleHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/reschedule-requests", func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))

		// Clients raise and review their own requests
		r.With(middleware.RequireRole(log, entity.RoleClient)).
			Post("/", rescheduleHandler.Create)
		r.With(middleware.RequireRole(log, entity.RoleClient)).
			Get("/", rescheduleHandler.ListMine)

		// Therapists see and resolve requests against their sessions
		r.With(middleware.RequireRole(log, entity.RoleTherapist)).
			Get("/pending", rescheduleHandler.ListPending)
		r.With(middleware.RequireRole(log, entity.RoleTherapist)).
			Post("/{id}/respond", rescheduleHandler.Respond)
	})
}
