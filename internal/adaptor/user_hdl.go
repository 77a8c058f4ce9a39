package adaptor

import (
	"encoding/json"
	"net/http"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/users/me (protected)
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// UpdateProfile handles PUT /api/users/me (protected)
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// ListMembers handles GET /api/organization/members (protected, owner/staff)
func (h *UserHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}

	var role *entity.UserRole
	if param := r.URL.Query().Get("role"); param != "" {
		parsed := entity.UserRole(param)
		role = &parsed
	}

	users, err := h.service.ListByOrganization(r.Context(), orgID, role)
	if err != nil {
		handleServiceError(w, h.log, err, "list members")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// Approve handles POST /api/organization/members/approve (protected, owner)
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}

	var req request.ApproveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Approve(r.Context(), userID, orgID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "approve user")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// ListNotifications handles GET /api/notifications (protected)
func (h *UserHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.service.ListNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		handleServiceError(w, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", notifications)
}

// MarkNotificationRead handles POST /api/notifications/{id}/read (protected)
func (h *UserHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	notificationID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid notification ID", nil)
		return
	}

	if err := h.service.MarkNotificationRead(r.Context(), userID, notificationID); err != nil {
		handleServiceError(w, h.log, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
