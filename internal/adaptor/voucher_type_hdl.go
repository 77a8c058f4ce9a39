package adaptor

import (
	"encoding/json"
	"net/http"

	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VoucherTypeHandler struct {
	service usecase.VoucherTypeService
	log     *zap.Logger
}

func NewVoucherTypeHandler(service usecase.VoucherTypeService, log *zap.Logger) *VoucherTypeHandler {
	return &VoucherTypeHandler{
		service: service,
		log:     log.With(zap.String("handler", "voucher_type")),
	}
}

// Create handles POST /api/voucher-types (protected, owner/staff)
func (h *VoucherTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, orgID, ok := requireOrgActor(w, r)
	if !ok {
		return
	}

	var req request.CreateVoucherTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	vt, err := h.service.Create(r.Context(), userID, orgID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create voucher type")
		return
	}

	utils.ResponseCreated(w, "success", vt)
}

// GetByID handles GET /api/voucher-types/{id}
func (h *VoucherTypeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid voucher type ID", nil)
		return
	}

	vt, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get voucher type")
		return
	}

	utils.ResponseSuccess(w, "success", vt)
}

// ListAvailable handles GET /api/voucher-types
func (h *VoucherTypeHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListAvailable(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list voucher types")
		return
	}

	utils.ResponseSuccess(w, "success", types)
}

// ListMine handles GET /api/organization/voucher-types (protected, owner/staff)
func (h *VoucherTypeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	orgID, ok := utils.GetOrgIDFromContext(r.Context())
	if !ok {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}

	var isActive *bool
	if param := r.URL.Query().Get("active"); param != "" {
		active := param == "true"
		isActive = &active
	}

	types, err := h.service.ListByOrganization(r.Context(), orgID, isActive)
	if err != nil {
		handleServiceError(w, h.log, err, "list organization voucher types")
		return
	}

	utils.ResponseSuccess(w, "success", types)
}

// Update handles PUT /api/voucher-types/{id} (protected, owner/staff)
func (h *VoucherTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, orgID, ok := requireOrgActor(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid voucher type ID", nil)
		return
	}

	var req request.UpdateVoucherTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	vt, err := h.service.Update(r.Context(), userID, orgID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update voucher type")
		return
	}

	utils.ResponseSuccess(w, "success", vt)
}

// Deactivate handles DELETE /api/voucher-types/{id} (protected, owner/staff)
func (h *VoucherTypeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, orgID, ok := requireOrgActor(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid voucher type ID", nil)
		return
	}

	if err := h.service.Deactivate(r.Context(), userID, orgID, id); err != nil {
		handleServiceError(w, h.log, err, "deactivate voucher type")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// requireOrgActor pulls the acting user and their organization from the
// request context, writing the error response itself when either is missing.
func requireOrgActor(w http.ResponseWriter, r *http.Request) (userID, orgID uuid.UUID, ok bool) {
	uID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	oID, found := utils.GetOrgIDFromContext(r.Context())
	if !found {
		utils.ResponseForbidden(w, "Organization membership required")
		return
	}
	return uID, oID, true
}
