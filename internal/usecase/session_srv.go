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

// backupRescheduleDays is how far ahead a replacement session is scheduled
// after a missed one, same time of day.
const backupRescheduleDays = 7

type SessionService interface {
	List(ctx context.Context, actorID uuid.UUID, role entity.UserRole, filter repository.SessionFilter) ([]response.SessionResponse, error)
	GetByID(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole) (*response.SessionResponse, error)
	Confirm(ctx context.Context, sessionID, actorID uuid.UUID) (*response.SessionResponse, error)
	Complete(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.CompleteSessionRequest) (*response.SessionResponse, error)
	Cancel(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole, req *request.CancelSessionRequest) (*response.SessionResponse, error)
	MarkNoShow(ctx context.Context, sessionID, therapistID uuid.UUID) (*response.SessionResponse, error)
	ApplyBackup(ctx context.Context, sessionID, actorID uuid.UUID) (*response.SessionResponse, error)
	AddNotes(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.AddSessionNotesRequest) (*response.SessionResponse, error)
	SendPreparation(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.SendPreparationRequest) (*response.SessionResponse, error)
	ListClients(ctx context.Context, therapistID uuid.UUID) ([]response.TherapistClientResponse, error)
}

type sessionService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSessionService(repo *repository.Repository, log *zap.Logger) SessionService {
	return &sessionService{
		repo: repo,
		log:  log.With(zap.String("service", "session")),
	}
}

func (s *sessionService) List(ctx context.Context, actorID uuid.UUID, role entity.UserRole, filter repository.SessionFilter) ([]response.SessionResponse, error) {
	switch role {
	case entity.RoleClient:
		filter.ClientID = &actorID
	case entity.RoleTherapist:
		filter.TherapistID = &actorID
	}

	sessions, err := s.repo.Session.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return response.SessionsToResponse(sessions), nil
}

func (s *sessionService) GetByID(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole) (*response.SessionResponse, error) {
	session, err := s.loadOwned(ctx, sessionID, actorID, role)
	if err != nil {
		return nil, err
	}
	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) Confirm(ctx context.Context, sessionID, actorID uuid.UUID) (*response.SessionResponse, error) {
	return s.transition(ctx, sessionID, actorID, entity.RoleClient, entity.SessionStatusConfirmed, nil)
}

func (s *sessionService) Complete(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.CompleteSessionRequest) (*response.SessionResponse, error) {
	return s.transition(ctx, sessionID, therapistID, entity.RoleTherapist, entity.SessionStatusCompleted, func(session *entity.TherapySession) {
		if req != nil && req.Notes != nil {
			session.TherapistNotes = req.Notes
		}
	})
}

func (s *sessionService) Cancel(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole, req *request.CancelSessionRequest) (*response.SessionResponse, error) {
	return s.transition(ctx, sessionID, actorID, role, entity.SessionStatusCancelled, func(session *entity.TherapySession) {
		if req != nil && req.Reason != nil {
			session.TherapistNotes = req.Reason
		}
	})
}

func (s *sessionService) MarkNoShow(ctx context.Context, sessionID, therapistID uuid.UUID) (*response.SessionResponse, error) {
	var session *entity.TherapySession

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.loadOwnedForUpdate(txCtx, sessionID, therapistID, entity.RoleTherapist)
		if err != nil {
			return err
		}

		today := truncateToDay(time.Now())
		if !session.ScheduledDate.Before(today) {
			return apperr.InvalidState("session has not happened yet")
		}
		if !session.CanTransitionTo(entity.SessionStatusNoShow) {
			return apperr.InvalidState("cannot mark a %s session as no-show", session.Status)
		}

		old := *session
		session.Status = entity.SessionStatusNoShow
		session.UpdatedAt = time.Now()
		if err := s.repo.Session.Update(txCtx, session); err != nil {
			return err
		}

		return writeAudit(txCtx, s.repo.Audit, &therapistID, &session.OrganizationID,
			"session.no_show", "therapy_session", session.ID, &old, session)
	})
	if err != nil {
		return nil, err
	}

	resp := response.SessionToResponse(session)
	return &resp, nil
}

// ApplyBackup substitutes a missed session: it consumes one backup code and
// schedules a replacement a week later at the same time. The missed session
// stays no_show; the replacement is additive.
func (s *sessionService) ApplyBackup(ctx context.Context, sessionID, actorID uuid.UUID) (*response.SessionResponse, error) {
	var replacement *entity.TherapySession

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		session, err := s.repo.Session.FindByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperr.NotFound("session not found")
		}
		if session.ClientID != actorID && session.TherapistID != actorID {
			return apperr.NotFound("session not found")
		}
		if session.Status != entity.SessionStatusNoShow {
			return apperr.InvalidState("backup can only replace a no-show session")
		}

		if _, err := consumeVoucherCode(txCtx, s.repo, session.VoucherID, true); err != nil {
			return err
		}

		now := time.Now()
		replacement = &entity.TherapySession{
			Base:              entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			ReservationID:     session.ReservationID,
			VoucherID:         session.VoucherID,
			ClientID:          session.ClientID,
			TherapistID:       session.TherapistID,
			OrganizationID:    session.OrganizationID,
			ScheduledDate:     session.ScheduledDate.AddDate(0, 0, backupRescheduleDays),
			ScheduledTime:     session.ScheduledTime,
			DurationMinutes:   session.DurationMinutes,
			SessionType:       session.SessionType,
			Location:          session.Location,
			Status:            entity.SessionStatusScheduled,
			IsBackupSession:   true,
			OriginalSessionID: &session.ID,
		}
		if err := s.repo.Session.Create(txCtx, replacement); err != nil {
			return err
		}

		if err := s.notify(txCtx, session.ClientID, &session.VoucherID,
			entity.NotificationBackupApplied,
			"Backup session scheduled",
			fmt.Sprintf("A replacement session was scheduled for %s at %s.",
				replacement.ScheduledDate.Format("2006-01-02"), replacement.ScheduledTime),
		); err != nil {
			return err
		}

		return writeAudit(txCtx, s.repo.Audit, &actorID, &session.OrganizationID,
			"session.apply_backup", "therapy_session", replacement.ID, nil, replacement)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Backup session applied",
		zap.String("original_session_id", sessionID.String()),
		zap.String("replacement_session_id", replacement.ID.String()),
	)

	resp := response.SessionToResponse(replacement)
	return &resp, nil
}

func (s *sessionService) AddNotes(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.AddSessionNotesRequest) (*response.SessionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	session, err := s.loadOwned(ctx, sessionID, therapistID, entity.RoleTherapist)
	if err != nil {
		return nil, err
	}

	session.TherapistNotes = &req.Notes
	session.UpdatedAt = time.Now()
	if err := s.repo.Session.Update(ctx, session); err != nil {
		return nil, err
	}

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) SendPreparation(ctx context.Context, sessionID, therapistID uuid.UUID, req *request.SendPreparationRequest) (*response.SessionResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	var session *entity.TherapySession

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.loadOwnedForUpdate(txCtx, sessionID, therapistID, entity.RoleTherapist)
		if err != nil {
			return err
		}

		today := truncateToDay(time.Now())
		if !session.IsUpcoming(today) {
			return apperr.InvalidState("preparation can only be sent for upcoming sessions")
		}

		now := time.Now()
		session.PreparationMessage = &req.Message
		session.PreparationSentAt = &now
		session.UpdatedAt = now
		if err := s.repo.Session.Update(txCtx, session); err != nil {
			return err
		}

		return s.notify(txCtx, session.ClientID, &session.VoucherID,
			entity.NotificationPreparationRequired,
			"Preparation for your next session",
			req.Message,
		)
	})
	if err != nil {
		return nil, err
	}

	resp := response.SessionToResponse(session)
	return &resp, nil
}

// ListClients builds the therapist's roster: one entry per voucher the
// therapist has sessions on, with remaining counters and the next upcoming
// session.
func (s *sessionService) ListClients(ctx context.Context, therapistID uuid.UUID) ([]response.TherapistClientResponse, error) {
	sessions, err := s.repo.Session.List(ctx, repository.SessionFilter{TherapistID: &therapistID})
	if err != nil {
		return nil, err
	}

	today := truncateToDay(time.Now())
	type rosterEntry struct {
		clientID uuid.UUID
		next     *entity.TherapySession
	}
	byVoucher := make(map[uuid.UUID]*rosterEntry)
	var order []uuid.UUID

	for _, session := range sessions {
		entry, ok := byVoucher[session.VoucherID]
		if !ok {
			entry = &rosterEntry{clientID: session.ClientID}
			byVoucher[session.VoucherID] = entry
			order = append(order, session.VoucherID)
		}
		if session.IsUpcoming(today) &&
			(entry.next == nil || session.ScheduledDate.Before(entry.next.ScheduledDate)) {
			entry.next = session
		}
	}

	roster := make([]response.TherapistClientResponse, 0, len(order))
	for _, voucherID := range order {
		entry := byVoucher[voucherID]

		voucher, err := s.repo.Voucher.FindByID(ctx, voucherID)
		if err != nil {
			return nil, err
		}
		if voucher == nil {
			continue
		}
		client, err := s.repo.User.FindByID(ctx, entry.clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			continue
		}
		completed, err := s.repo.Session.CountByVoucherAndStatus(ctx, voucherID, entity.SessionStatusCompleted)
		if err != nil {
			return nil, err
		}

		row := response.TherapistClientResponse{
			Client:                  response.UserToResponse(client),
			VoucherID:               voucherID.String(),
			SessionsRemaining:       voucher.SessionsRemaining(),
			BackupSessionsRemaining: voucher.BackupSessionsRemaining(),
			CompletedSessions:       int(completed),
		}
		if entry.next != nil {
			nextDate := entry.next.ScheduledDate.Format("2006-01-02")
			nextTime := entry.next.ScheduledTime
			row.NextSessionDate = &nextDate
			row.NextSessionTime = &nextTime
		}
		roster = append(roster, row)
	}

	return roster, nil
}

// transition applies one state-machine step under the session row lock.
func (s *sessionService) transition(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole, next entity.SessionStatus, mutate func(*entity.TherapySession)) (*response.SessionResponse, error) {
	var session *entity.TherapySession

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.loadOwnedForUpdate(txCtx, sessionID, actorID, role)
		if err != nil {
			return err
		}

		if !session.CanTransitionTo(next) {
			return apperr.InvalidState("cannot move a %s session to %s", session.Status, next)
		}

		old := *session
		session.Status = next
		if mutate != nil {
			mutate(session)
		}
		session.UpdatedAt = time.Now()
		if err := s.repo.Session.Update(txCtx, session); err != nil {
			return err
		}

		return writeAudit(txCtx, s.repo.Audit, &actorID, &session.OrganizationID,
			"session."+string(next), "therapy_session", session.ID, &old, session)
	})
	if err != nil {
		return nil, err
	}

	resp := response.SessionToResponse(session)
	return &resp, nil
}

func (s *sessionService) loadOwned(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole) (*entity.TherapySession, error) {
	session, err := s.repo.Session.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return checkSessionOwnership(session, actorID, role)
}

func (s *sessionService) loadOwnedForUpdate(ctx context.Context, sessionID, actorID uuid.UUID, role entity.UserRole) (*entity.TherapySession, error) {
	session, err := s.repo.Session.FindByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return checkSessionOwnership(session, actorID, role)
}

// checkSessionOwnership collapses "absent" and "not yours" into the same
// not-found error so callers cannot probe for other people's sessions.
func checkSessionOwnership(session *entity.TherapySession, actorID uuid.UUID, role entity.UserRole) (*entity.TherapySession, error) {
	if session == nil {
		return nil, apperr.NotFound("session not found")
	}
	switch role {
	case entity.RoleClient:
		if session.ClientID != actorID {
			return nil, apperr.NotFound("session not found")
		}
	case entity.RoleTherapist:
		if session.TherapistID != actorID {
			return nil, apperr.NotFound("session not found")
		}
	}
	return session, nil
}

func (s *sessionService) notify(ctx context.Context, recipientID uuid.UUID, voucherID *uuid.UUID, kind entity.NotificationType, title, message string) error {
	return s.repo.Notification.Create(ctx, &entity.Notification{
		BaseSimple:  entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: time.Now()},
		VoucherID:   voucherID,
		RecipientID: recipientID,
		Type:        kind,
		Title:       title,
		Message:     message,
	})
}
