package adaptor

import (
	"encoding/json"
	"net/http"

	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrganizationHandler struct {
	service usecase.OrganizationService
	log     *zap.Logger
}

func NewOrganizationHandler(service usecase.OrganizationService, log *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		service: service,
		log:     log.With(zap.String("handler", "organization")),
	}
}

// Create handles POST /api/organizations (protected)
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	org, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create organization")
		return
	}

	utils.ResponseCreated(w, "success", org)
}

// GetByID handles GET /api/organizations/{id}
func (h *OrganizationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orgID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid organization ID", nil)
		return
	}

	org, err := h.service.GetByID(r.Context(), orgID)
	if err != nil {
		handleServiceError(w, h.log, err, "get organization")
		return
	}

	utils.ResponseSuccess(w, "success", org)
}

// List handles GET /api/organizations
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	var isActive *bool
	if param := r.URL.Query().Get("active"); param != "" {
		active := param == "true"
		isActive = &active
	}

	orgs, err := h.service.List(r.Context(), isActive)
	if err != nil {
		handleServiceError(w, h.log, err, "list organizations")
		return
	}

	utils.ResponseSuccess(w, "success", orgs)
}

// Update handles PUT /api/organization (protected, owner)
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req request.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	org, err := h.service.Update(r.Context(), userID, orgID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update organization")
		return
	}

	utils.ResponseSuccess(w, "success", org)
}

// ListAuditLogs handles GET /api/organization/audit-logs (protected, owner)
func (h *OrganizationHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}

	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	perPage := utils.ParseInt(r.URL.Query().Get("per_page"), 20)

	logs, err := h.service.ListAuditLogs(r.Context(), orgID, page, perPage)
	if err != nil {
		handleServiceError(w, h.log, err, "list audit logs")
		return
	}

	utils.ResponseSuccess(w, "success", logs)
}

// GetEntityHistory handles GET /api/organization/audit-logs/{entityType}/{entityID} (protected, owner)
func (h *OrganizationHandler) GetEntityHistory(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}

	entityID, err := utils.ParseUUID(chi.URLParam(r, "entityID"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid entity ID", nil)
		return
	}

	logs, err := h.service.GetEntityHistory(r.Context(), orgID, chi.URLParam(r, "entityType"), entityID)
	if err != nil {
		handleServiceError(w, h.log, err, "get entity history")
		return
	}

	utils.ResponseSuccess(w, "success", logs)
}
