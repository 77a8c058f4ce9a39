package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/usecase"
	"therapy-vouchers/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionHandler struct {
	service usecase.SessionService
	log     *zap.Logger
}

func NewSessionHandler(service usecase.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log.With(zap.String("handler", "session")),
	}
}

// List handles GET /api/sessions (protected)
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	filter := repository.SessionFilter{}
	query := r.URL.Query()
	if param := query.Get("status"); param != "" {
		status := entity.SessionStatus(param)
		filter.Status = &status
	}
	if param := query.Get("from"); param != "" {
		if from, err := time.Parse("2006-01-02", param); err == nil {
			filter.FromDate = &from
		}
	}
	if param := query.Get("to"); param != "" {
		if to, err := time.Parse("2006-01-02", param); err == nil {
			filter.ToDate = &to
		}
	}

	sessions, err := h.service.List(r.Context(), userID, entity.UserRole(role), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "list sessions")
		return
	}

	utils.ResponseSuccess(w, "success", sessions)
}

// ListClients handles GET /api/therapist/clients (protected, therapist)
func (h *SessionHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	roster, err := h.service.ListClients(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list therapist clients")
		return
	}

	utils.ResponseSuccess(w, "success", roster)
}

// GetByID handles GET /api/sessions/{id} (protected)
func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	session, err := h.service.GetByID(r.Context(), sessionID, userID, entity.UserRole(role))
	if err != nil {
		handleServiceError(w, h.log, err, "get session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// Confirm handles POST /api/sessions/{id}/confirm (protected, client)
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	session, err := h.service.Confirm(r.Context(), sessionID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// Complete handles POST /api/sessions/{id}/complete (protected, therapist)
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	var req request.CompleteSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := h.service.Complete(r.Context(), sessionID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "complete session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// Cancel handles POST /api/sessions/{id}/cancel (protected)
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}
	role, _ := utils.GetRoleFromContext(r.Context())

	var req request.CancelSessionRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := h.service.Cancel(r.Context(), sessionID, userID, entity.UserRole(role), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel session")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// MarkNoShow handles POST /api/sessions/{id}/no-show (protected, therapist)
func (h *SessionHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	session, err := h.service.MarkNoShow(r.Context(), sessionID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "mark no-show")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// ApplyBackup handles POST /api/sessions/{id}/apply-backup (protected)
func (h *SessionHandler) ApplyBackup(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	replacement, err := h.service.ApplyBackup(r.Context(), sessionID, userID)
	if err != nil {
		handleServiceError(w, h.log, err, "apply backup")
		return
	}

	utils.ResponseCreated(w, "success", replacement)
}

// AddNotes handles POST /api/sessions/{id}/notes (protected, therapist)
func (h *SessionHandler) AddNotes(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	var req request.AddSessionNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session, err := h.service.AddNotes(r.Context(), sessionID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add session notes")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

// SendPreparation handles POST /api/sessions/{id}/preparation (protected, therapist)
func (h *SessionHandler) SendPreparation(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionActor(w, r)
	if !ok {
		return
	}

	var req request.SendPreparationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	session, err := h.service.SendPreparation(r.Context(), sessionID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send preparation")
		return
	}

	utils.ResponseSuccess(w, "success", session)
}

func (h *SessionHandler) sessionActor(w http.ResponseWriter, r *http.Request) (userID, sessionID uuid.UUID, ok bool) {
	userID, found := utils.GetUserIDFromContext(r.Context())
	if !found {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	sessionID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid session ID", nil)
		return
	}

	return userID, sessionID, true
}
