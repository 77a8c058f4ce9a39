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

// wireAdmin configures platform administration routes
func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(admin chi.Router) {
		admin.Use(middleware.Auth(repo.AuthSession, repo.User, log))
		admin.Use(middleware.RequireRole(log, entity.RoleAdmin))

		admin.Get("/users", adminHandler.ListUsers)                 // GET /api/admin/users?role=therapist&active=false
		admin.Post("/users", adminHandler.CreateUser)               // POST /api/admin/users
		admin.Post("/users/approve", adminHandler.ApproveUser)      // POST /api/admin/users/approve
		admin.Put("/users/{id}", adminHandler.UpdateUser)           // PUT /api/admin/users/{user-id}
		admin.Delete("/users/{id}", adminHandler.DeleteUser)        // DELETE /api/admin/users/{user-id}
		admin.Post("/users/{id}/password", adminHandler.SetPassword) // POST /api/admin/users/{user-id}/password

		admin.Get("/organizations", adminHandler.ListOrganizations)                          // GET /api/admin/organizations
		admin.Post("/organizations/{id}/deactivate", adminHandler.DeactivateOrganization)    // POST /api/admin/organizations/{org-id}/deactivate

		admin.Get("/vouchers", adminHandler.ListVouchers) // GET /api/admin/vouchers?organization_id=...&status=active
	})
}
