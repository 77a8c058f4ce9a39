package wire

import (
	"therapy-vouchers/internal/adaptor"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/pkg/middleware"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAuth configures authentication routes
func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/register", authHandler.Register) // POST /api/auth/register
	r.Post("/api/auth/login", authHandler.Login)       // POST /api/auth/login

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(repo.AuthSession, repo.User, log))

		r.Post("/api/auth/logout", authHandler.Logout)
		r.Post("/api/auth/change-password", authHandler.ChangePassword)
	})
}
