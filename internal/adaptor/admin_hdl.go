package adaptor

import (
	"encoding/json"
	"net/http"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// ListUsers handles GET /api/admin/users (protected, admin)
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *entity.UserRole
	if param := r.URL.Query().Get("role"); param != "" {
		value := entity.UserRole(param)
		role = &value
	}

	var orgID *uuid.UUID
	if param := r.URL.Query().Get("organization_id"); param != "" {
		id, err := utils.ParseUUID(param)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid organization ID", nil)
			return
		}
		orgID = &id
	}

	var isActive *bool
	if param := r.URL.Query().Get("active"); param != "" {
		active := param == "true"
		isActive = &active
	}

	users, err := h.service.ListUsers(r.Context(), role, orgID, isActive)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// CreateUser handles POST /api/admin/users (protected, admin)
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AdminCreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.CreateUser(r.Context(), adminID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create user")
		return
	}

	utils.ResponseCreated(w, "success", user)
}

// UpdateUser handles PUT /api/admin/users/{id} (protected, admin)
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), adminID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// DeleteUser handles DELETE /api/admin/users/{id} (protected, admin)
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	if err := h.service.DeleteUser(r.Context(), adminID, userID); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ApproveUser handles POST /api/admin/users/approve (protected, admin)
func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AdminApproveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.ApproveUser(r.Context(), adminID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "approve user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// SetPassword handles POST /api/admin/users/{id}/password (protected, admin)
func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	userID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.SetPassword(r.Context(), adminID, userID, &req); err != nil {
		handleServiceError(w, h.log, err, "set password")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListOrganizations handles GET /api/admin/organizations (protected, admin)
func (h *AdminHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.ListOrganizations(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list organizations")
		return
	}

	utils.ResponseSuccess(w, "success", orgs)
}

// DeactivateOrganization handles POST /api/admin/organizations/{id}/deactivate (protected, admin)
func (h *AdminHandler) DeactivateOrganization(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	orgID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid organization ID", nil)
		return
	}

	org, err := h.service.DeactivateOrganization(r.Context(), adminID, orgID)
	if err != nil {
		handleServiceError(w, h.log, err, "deactivate organization")
		return
	}

	utils.ResponseSuccess(w, "success", org)
}

// ListVouchers handles GET /api/admin/vouchers (protected, admin)
func (h *AdminHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	var orgID *uuid.UUID
	if param := r.URL.Query().Get("organization_id"); param != "" {
		id, err := utils.ParseUUID(param)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid organization ID", nil)
			return
		}
		orgID = &id
	}

	var status *entity.VoucherStatus
	if param := r.URL.Query().Get("status"); param != "" {
		value := entity.VoucherStatus(param)
		status = &value
	}

	vouchers, err := h.service.ListVouchers(r.Context(), orgID, status)
	if err != nil {
		handleServiceError(w, h.log, err, "list vouchers")
		return
	}

	utils.ResponseSuccess(w, "success", vouchers)
}
