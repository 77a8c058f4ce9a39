// internal/wire/wire.go
package wire

import (
	"net/http"
	"therapy-vouchers/internal/adaptor"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/middleware"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application dependencies
type App struct {
	Router      *chi.Mux
	Maintenance usecase.MaintenanceService
}

// Wiring initializes services, handlers, and the router
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	// Initialize services and handlers
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:      router,
		Maintenance: service.Maintenance,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))

	// Apply routes
	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireOrganization(r, handler.Organization, repo, config, logger)
	wireVoucherType(r, handler.VoucherType, repo, config, logger)
	wireVoucher(r, handler.Voucher, repo, config, logger)
	wireSession(r, handler.Session, repo, config, logger)
	wireReschedule(r, handler.Reschedule, repo, config, logger)
	wireAdmin(r, handler.Admin, repo, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
