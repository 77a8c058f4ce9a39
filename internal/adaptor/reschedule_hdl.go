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

type RescheduleHandler struct {
	service usecase.RescheduleService
	log     *zap.Logger
}

func NewRescheduleHandler(service usecase.RescheduleService, log *zap.Logger) *RescheduleHandler {
	return &RescheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "reschedule")),
	}
}

// Create handles POST /api/reschedule-requests (protected, client)
func (h *RescheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Request(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reschedule request")
		return
	}

	utils.ResponseCreated(w, "success", resp)
}

// Respond handles POST /api/reschedule-requests/{id}/respond (protected, therapist)
func (h *RescheduleHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	requestID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid request ID", nil)
		return
	}

	var req request.RespondRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Respond(r.Context(), userID, requestID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "respond to reschedule request")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// ListPending handles GET /api/reschedule-requests/pending (protected, therapist)
func (h *RescheduleHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	requests, err := h.service.ListPending(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list pending reschedule requests")
		return
	}

	utils.ResponseSuccess(w, "success", requests)
}

// ListMine handles GET /api/reschedule-requests (protected, client)
func (h *RescheduleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	requests, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list reschedule requests")
		return
	}

	utils.ResponseSuccess(w, "success", requests)
}
