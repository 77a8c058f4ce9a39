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

// wireSession configures therapy session routes
func wireSession(
	r chi.Router,
	sessionHandler *adaptor.SessionHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.With(
		middleware.Auth(repo.AuthSession, repo.User, log),
		middleware.RequireRole(log, entity.RoleTherapist),
	).Get("/api/therapist/clients", sessionHandler.ListClients)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))

		r.Get("/", sessionHandler.List)        // GET /api/sessions?status=scheduled&from=2026-01-01
		r.Get("/{id}", sessionHandler.GetByID) // GET /api/sessions/{session-id}

		// Participant actions; the service checks which side of the session acts
		r.Post("/{id}/cancel", sessionHandler.Cancel)
		r.Post("/{id}/apply-backup", sessionHandler.ApplyBackup)

		// Client actions
		r.With(middleware.RequireRole(log, entity.RoleClient)).
			Post("/{id}/confirm", sessionHandler.Confirm)

		// Therapist actions
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(log, entity.RoleTherapist))

			r.Post("/{id}/complete", sessionHandler.Complete)
			r.Post("/{id}/no-show", sessionHandler.MarkNoShow)
			r.Post("/{id}/notes", sessionHandler.AddNotes)
			r.Post("/{id}/preparation", sessionHandler.SendPreparation)
		})
	})
}
