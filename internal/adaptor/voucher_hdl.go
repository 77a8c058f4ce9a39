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

type VoucherHandler struct {
	service usecase.VoucherService
	log     *zap.Logger
}

func NewVoucherHandler(service usecase.VoucherService, log *zap.Logger) *VoucherHandler {
	return &VoucherHandler{
		service: service,
		log:     log.With(zap.String("handler", "voucher")),
	}
}

// Purchase handles POST /api/vouchers/purchase (protected, client/owner/staff)
func (h *VoucherHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	var orgID *uuid.UUID
	if id, ok := utils.GetOrgIDFromContext(r.Context()); ok {
		orgID = &id
	}

	var req request.PurchaseVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Purchase(r.Context(), userID, entity.UserRole(role), orgID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "purchase voucher")
		return
	}

	utils.ResponseCreated(w, "success", resp)
}

// Activate handles POST /api/vouchers/activate/{code} (protected, client)
func (h *VoucherHandler) Activate(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	code := chi.URLParam(r, "code")
	if code == "" {
		utils.ResponseBadRequest(w, "Voucher code is required", nil)
		return
	}

	voucher, err := h.service.Activate(r.Context(), userID, code)
	if err != nil {
		handleServiceError(w, h.log, err, "activate voucher")
		return
	}

	utils.ResponseSuccess(w, "success", voucher)
}

// GetStatus handles GET /api/vouchers/{id}/status (protected)
func (h *VoucherHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	voucherID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid voucher ID", nil)
		return
	}

	status, err := h.service.GetStatus(r.Context(), voucherID, userID, entity.UserRole(role))
	if err != nil {
		handleServiceError(w, h.log, err, "get voucher status")
		return
	}

	utils.ResponseSuccess(w, "success", status)
}

// List handles GET /api/vouchers (protected)
func (h *VoucherHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	var orgID *uuid.UUID
	if id, found := utils.GetOrgIDFromContext(r.Context()); found {
		orgID = &id
	}

	vouchers, err := h.service.List(r.Context(), userID, entity.UserRole(role), orgID)
	if err != nil {
		handleServiceError(w, h.log, err, "list vouchers")
		return
	}

	utils.ResponseSuccess(w, "success", vouchers)
}

// ConsumeRegular handles POST /api/vouchers/{id}/consume (protected, therapist/staff)
func (h *VoucherHandler) ConsumeRegular(w http.ResponseWriter, r *http.Request) {
	h.consume(w, r, false)
}

// ConsumeBackup handles POST /api/vouchers/{id}/consume-backup (protected, therapist/staff)
func (h *VoucherHandler) ConsumeBackup(w http.ResponseWriter, r *http.Request) {
	h.consume(w, r, true)
}

func (h *VoucherHandler) consume(w http.ResponseWriter, r *http.Request, backup bool) {
	voucherID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid voucher ID", nil)
		return
	}

	var code any
	if backup {
		code, err = h.service.ConsumeBackupCode(r.Context(), voucherID)
	} else {
		code, err = h.service.ConsumeRegularCode(r.Context(), voucherID)
	}
	if err != nil {
		handleServiceError(w, h.log, err, "consume voucher code")
		return
	}

	utils.ResponseSuccess(w, "success", code)
}

// CreateReservation handles POST /api/reservations (protected, client)
func (h *VoucherHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}
