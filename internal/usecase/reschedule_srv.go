package usecase

import (
	"context"
	"fmt"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/internal/dto/response"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RescheduleService interface {
	Request(ctx context.Context, clientID uuid.UUID, req *request.CreateRescheduleRequest) (*response.RescheduleResponse, error)
	Respond(ctx context.Context, therapistID, requestID uuid.UUID, req *request.RespondRescheduleRequest) (*response.RescheduleResponse, error)
	ListPending(ctx context.Context, therapistID uuid.UUID) ([]response.RescheduleResponse, error)
	ListMine(ctx context.Context, clientID uuid.UUID) ([]response.RescheduleResponse, error)
}

type rescheduleService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRescheduleService(repo *repository.Repository, log *zap.Logger) RescheduleService {
	return &rescheduleService{
		repo: repo,
		log:  log.With(zap.String("service", "reschedule")),
	}
}

func (s *rescheduleService) Request(ctx context.Context, clientID uuid.UUID, req *request.CreateRescheduleRequest) (*response.RescheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reschedule request validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apperr.Validation("invalid session ID")
	}
	preferredDate, err := time.Parse("2006-01-02", req.PreferredDate)
	if err != nil {
		return nil, apperr.Validation("invalid preferred date")
	}
	var alternativeDate *time.Time
	if req.AlternativeDate != nil {
		d, err := time.Parse("2006-01-02", *req.AlternativeDate)
		if err != nil {
			return nil, apperr.Validation("invalid alternative date")
		}
		alternativeDate = &d
	}

	var created *entity.RescheduleRequest

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		session, err := s.repo.Session.FindByID(txCtx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.ClientID != clientID {
			return apperr.NotFound("session not found")
		}
		if session.Status != entity.SessionStatusScheduled && session.Status != entity.SessionStatusConfirmed {
			return apperr.InvalidState("only upcoming sessions can be rescheduled")
		}

		pending, err := s.repo.Reschedule.FindPendingBySession(txCtx, sessionID)
		if err != nil {
			return err
		}
		if pending != nil {
			return apperr.Conflict("a reschedule request for this session is already pending")
		}

		now := time.Now()
		created = &entity.RescheduleRequest{
			Base:            entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			SessionID:       session.ID,
			RequestedBy:     clientID,
			CurrentDate:     session.ScheduledDate,
			CurrentTime:     session.ScheduledTime,
			PreferredDate:   preferredDate,
			PreferredTime:   req.PreferredTime,
			AlternativeDate: alternativeDate,
			AlternativeTime: req.AlternativeTime,
			Reason:          req.Reason,
			Status:          entity.RescheduleStatusPending,
		}
		if err := s.repo.Reschedule.Create(txCtx, created); err != nil {
			return err
		}

		return writeAudit(txCtx, s.repo.Audit, &clientID, &session.OrganizationID,
			"reschedule.request", "reschedule_request", created.ID, nil, created)
	})
	if err != nil {
		return nil, err
	}

	resp := response.RescheduleToResponse(created)
	return &resp, nil
}

// Respond resolves a pending request. Accepting creates the replacement
// session, closes the original as rescheduled and back-references the new
// session from the request; all of it commits or rolls back together.
func (s *rescheduleService) Respond(ctx context.Context, therapistID, requestID uuid.UUID, req *request.RespondRescheduleRequest) (*response.RescheduleResponse, error) {
	var resolved *entity.RescheduleRequest

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		rr, err := s.repo.Reschedule.FindByIDForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if rr == nil {
			return apperr.NotFound("reschedule request not found")
		}
		if rr.IsResolved() {
			return apperr.Conflict("reschedule request is already %s", rr.Status)
		}

		session, err := s.repo.Session.FindByIDForUpdate(txCtx, rr.SessionID)
		if err != nil {
			return err
		}
		if session == nil || session.TherapistID != therapistID {
			return apperr.NotFound("reschedule request not found")
		}

		now := time.Now()
		rr.RespondedBy = &therapistID
		rr.ResponseMessage = req.ResponseMessage
		rr.RespondedAt = &now
		rr.UpdatedAt = now

		if req.Accept {
			if err := s.accept(txCtx, rr, session, req.UseAlternative, now); err != nil {
				return err
			}
		} else {
			rr.Status = entity.RescheduleStatusRejected
			if err := s.notifyResolution(txCtx, rr, session, false); err != nil {
				return err
			}
		}

		if err := s.repo.Reschedule.Update(txCtx, rr); err != nil {
			return err
		}

		resolved = rr
		return writeAudit(txCtx, s.repo.Audit, &therapistID, &session.OrganizationID,
			"reschedule."+string(rr.Status), "reschedule_request", rr.ID, nil, rr)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Reschedule request resolved",
		zap.String("request_id", requestID.String()),
		zap.String("status", string(resolved.Status)),
	)

	resp := response.RescheduleToResponse(resolved)
	return &resp, nil
}

func (s *rescheduleService) accept(ctx context.Context, rr *entity.RescheduleRequest, session *entity.TherapySession, useAlternative bool, now time.Time) error {
	newDate := rr.PreferredDate
	newTime := rr.PreferredTime
	if useAlternative {
		if rr.AlternativeDate == nil || rr.AlternativeTime == nil {
			return apperr.InvalidState("request has no alternative date")
		}
		newDate = *rr.AlternativeDate
		newTime = *rr.AlternativeTime
	}

	if !session.CanTransitionTo(entity.SessionStatusRescheduled) {
		return apperr.InvalidState("cannot reschedule a %s session", session.Status)
	}

	replacement := &entity.TherapySession{
		Base:              entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		ReservationID:     session.ReservationID,
		VoucherID:         session.VoucherID,
		ClientID:          session.ClientID,
		TherapistID:       session.TherapistID,
		OrganizationID:    session.OrganizationID,
		ScheduledDate:     newDate,
		ScheduledTime:     newTime,
		DurationMinutes:   session.DurationMinutes,
		SessionType:       session.SessionType,
		Location:          session.Location,
		Status:            entity.SessionStatusScheduled,
		OriginalSessionID: &session.ID,
	}
	if err := s.repo.Session.Create(ctx, replacement); err != nil {
		return err
	}

	session.Status = entity.SessionStatusRescheduled
	actualDate := newDate
	actualTime := newTime
	session.ActualDate = &actualDate
	session.ActualTime = &actualTime
	session.UpdatedAt = now
	if err := s.repo.Session.Update(ctx, session); err != nil {
		return err
	}

	rr.Status = entity.RescheduleStatusAccepted
	rr.NewSessionID = &replacement.ID

	return s.notifyResolution(ctx, rr, session, true)
}

func (s *rescheduleService) notifyResolution(ctx context.Context, rr *entity.RescheduleRequest, session *entity.TherapySession, accepted bool) error {
	kind := entity.NotificationRescheduleRejected
	title := "Reschedule request declined"
	message := fmt.Sprintf("Your request to move the session of %s was declined.", rr.CurrentDate.Format("2006-01-02"))
	if accepted {
		kind = entity.NotificationRescheduleApproved
		title = "Reschedule request approved"
		message = fmt.Sprintf("Your session was moved from %s to %s at %s.",
			rr.CurrentDate.Format("2006-01-02"), session.ActualDate.Format("2006-01-02"), *session.ActualTime)
	}
	if rr.ResponseMessage != nil && *rr.ResponseMessage != "" {
		message += " " + *rr.ResponseMessage
	}

	return s.repo.Notification.Create(ctx, &entity.Notification{
		BaseSimple:  entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: time.Now()},
		VoucherID:   &session.VoucherID,
		RecipientID: rr.RequestedBy,
		Type:        kind,
		Title:       title,
		Message:     message,
	})
}

func (s *rescheduleService) ListPending(ctx context.Context, therapistID uuid.UUID) ([]response.RescheduleResponse, error) {
	requests, err := s.repo.Reschedule.ListPendingByTherapist(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	return response.ReschedulesToResponse(requests), nil
}

func (s *rescheduleService) ListMine(ctx context.Context, clientID uuid.UUID) ([]response.RescheduleResponse, error) {
	requests, err := s.repo.Reschedule.ListByRequester(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return response.ReschedulesToResponse(requests), nil
}
