package usecase

import (
	"context"
	"encoding/json"
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

// codeGenerationAttempts bounds the collision-retry loop. With 36^8 possible
// codes a retry is already rare; hitting the bound means something is wrong.
const codeGenerationAttempts = 10

type VoucherService interface {
	Purchase(ctx context.Context, actorID uuid.UUID, role entity.UserRole, orgID *uuid.UUID, req *request.PurchaseVoucherRequest) (*response.PurchaseResponse, error)
	Activate(ctx context.Context, clientID uuid.UUID, code string) (*response.VoucherResponse, error)
	ConsumeRegularCode(ctx context.Context, voucherID uuid.UUID) (*response.VoucherCodeResponse, error)
	ConsumeBackupCode(ctx context.Context, voucherID uuid.UUID) (*response.VoucherCodeResponse, error)
	GetStatus(ctx context.Context, voucherID, actorID uuid.UUID, role entity.UserRole) (*response.VoucherStatusResponse, error)
	List(ctx context.Context, actorID uuid.UUID, role entity.UserRole, orgID *uuid.UUID) ([]response.VoucherResponse, error)
	CreateReservation(ctx context.Context, clientID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error)
}

type voucherService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVoucherService(repo *repository.Repository, log *zap.Logger) VoucherService {
	return &voucherService{
		repo: repo,
		log:  log.With(zap.String("service", "voucher")),
	}
}

func (s *voucherService) Purchase(ctx context.Context, actorID uuid.UUID, role entity.UserRole, orgID *uuid.UUID, req *request.PurchaseVoucherRequest) (*response.PurchaseResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Purchase validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	typeID, err := uuid.Parse(req.VoucherTypeID)
	if err != nil {
		return nil, apperr.Validation("invalid voucher type ID")
	}

	vt, err := s.repo.VoucherType.FindByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, apperr.NotFound("voucher type not found")
	}
	// Front-desk staff sell only their own organization's catalog; clients
	// buy from any organization that offers the type.
	if role != entity.RoleClient && (orgID == nil || vt.OrganizationID != *orgID) {
		return nil, apperr.NotFound("voucher type not found")
	}
	if !vt.IsActive {
		return nil, apperr.InactiveType("voucher type %s is no longer offered", vt.Name)
	}

	var clientID, therapistID *uuid.UUID
	if role == entity.RoleClient {
		if req.ClientID != nil && *req.ClientID != actorID.String() {
			return nil, apperr.Forbidden("clients can only purchase for themselves")
		}
		self := actorID
		clientID = &self
	} else if req.ClientID != nil {
		id, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return nil, apperr.Validation("invalid client ID")
		}
		clientID = &id
	}
	if req.TherapistID != nil {
		id, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			return nil, apperr.Validation("invalid therapist ID")
		}
		therapistID = &id
	}
	if therapistID != nil && clientID == nil {
		return nil, apperr.Validation("scheduling at purchase requires a client")
	}

	now := time.Now()
	voucher := &entity.Voucher{
		Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		ClientID:       clientID,
		VoucherTypeID:  vt.ID,
		OrganizationID: vt.OrganizationID,
		PurchaseDate:   now,
		ValidUntil:     now.AddDate(0, 0, vt.ValidityDays),
		TotalSessions:  vt.TotalSessions,
		BackupSessions: vt.BackupSessions,
		Status:         entity.VoucherStatusPending,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  entity.PaymentStatusPending,
		PaymentAmount:  vt.Price,
	}
	if clientID != nil {
		voucher.Status = entity.VoucherStatusActive
		activatedAt := now
		voucher.ActivatedAt = &activatedAt
	}

	var codes []*entity.VoucherCode

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		seq, err := s.repo.Voucher.CountPurchasedInYear(txCtx, now.Year())
		if err != nil {
			return err
		}
		voucher.InvoiceNumber = utils.FormatInvoiceNumber(now.Year(), seq+1)

		if err := s.repo.Voucher.Create(txCtx, voucher); err != nil {
			return err
		}

		codes, err = s.generateCodes(txCtx, voucher, now)
		if err != nil {
			return err
		}
		if err := s.repo.VoucherCode.CreateBatch(txCtx, codes); err != nil {
			return err
		}

		if therapistID != nil {
			slots, err := GenerateSessionSlots(vt, now, "")
			if err != nil {
				return err
			}
			sessions := buildSessions(voucher, vt, slots, *clientID, *therapistID, nil, now)
			if err := s.repo.Session.CreateBatch(txCtx, sessions); err != nil {
				return err
			}
		}

		return s.audit(txCtx, &actorID, vt.OrganizationID, "voucher.purchase", "voucher", voucher.ID, nil, voucher)
	})
	if err != nil {
		s.log.Error("Purchase failed",
			zap.Error(err),
			zap.String("voucher_type_id", typeID.String()),
		)
		return nil, err
	}

	s.log.Info("Voucher purchased",
		zap.String("voucher_id", voucher.ID.String()),
		zap.String("invoice_number", voucher.InvoiceNumber),
	)

	resp := &response.PurchaseResponse{Voucher: response.VoucherToResponse(voucher)}
	for _, c := range codes {
		if c.IsBackup {
			resp.BackupCodes = append(resp.BackupCodes, response.VoucherCodeToResponse(c))
		} else {
			resp.Codes = append(resp.Codes, response.VoucherCodeToResponse(c))
		}
	}
	return resp, nil
}

// generateCodes draws unique codes for every regular and backup slot,
// retrying against the persisted code set on collision.
func (s *voucherService) generateCodes(ctx context.Context, voucher *entity.Voucher, now time.Time) ([]*entity.VoucherCode, error) {
	total := voucher.TotalSessions + voucher.BackupSessions
	codes := make([]*entity.VoucherCode, 0, total)
	seen := make(map[string]bool, total)

	for i := 0; i < total; i++ {
		code, err := s.drawUniqueCode(ctx, seen)
		if err != nil {
			return nil, err
		}
		seen[code] = true
		codes = append(codes, &entity.VoucherCode{
			BaseSimple: entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now.Add(time.Duration(i) * time.Microsecond)},
			VoucherID:  voucher.ID,
			Code:       code,
			IsBackup:   i >= voucher.TotalSessions,
			Status:     entity.CodeStatusActive,
			MaxUses:    1,
		})
	}

	return codes, nil
}

func (s *voucherService) drawUniqueCode(ctx context.Context, seen map[string]bool) (string, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code := utils.GenerateVoucherCode()
		if seen[code] {
			continue
		}
		exists, err := s.repo.VoucherCode.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", apperr.Conflict("could not generate a unique voucher code")
}

func (s *voucherService) Activate(ctx context.Context, clientID uuid.UUID, code string) (*response.VoucherResponse, error) {
	var voucher *entity.Voucher

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		vc, err := s.repo.VoucherCode.FindByCode(txCtx, code)
		if err != nil {
			return err
		}
		if vc == nil {
			return apperr.NotFound("voucher code not found")
		}
		if vc.Status != entity.CodeStatusActive {
			return apperr.InvalidState("voucher code is %s", vc.Status)
		}

		voucher, err = s.repo.Voucher.FindByIDForUpdate(txCtx, vc.VoucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return apperr.NotFound("voucher not found")
		}

		if voucher.ClientID != nil {
			if *voucher.ClientID == clientID {
				// already bound to this client, activation is idempotent
				return nil
			}
			return apperr.AlreadyActivated("voucher is already activated by another client")
		}

		now := time.Now()
		voucher.ClientID = &clientID
		voucher.ActivatedAt = &now
		voucher.UpdatedAt = now
		voucher.RecomputeStatus(now)

		if err := s.repo.Voucher.Update(txCtx, voucher); err != nil {
			return err
		}
		return s.audit(txCtx, &clientID, voucher.OrganizationID, "voucher.activate", "voucher", voucher.ID, nil, voucher)
	})
	if err != nil {
		return nil, err
	}

	resp := response.VoucherToResponse(voucher)
	return &resp, nil
}

func (s *voucherService) ConsumeRegularCode(ctx context.Context, voucherID uuid.UUID) (*response.VoucherCodeResponse, error) {
	return s.consume(ctx, voucherID, false)
}

func (s *voucherService) ConsumeBackupCode(ctx context.Context, voucherID uuid.UUID) (*response.VoucherCodeResponse, error) {
	return s.consume(ctx, voucherID, true)
}

func (s *voucherService) consume(ctx context.Context, voucherID uuid.UUID, backup bool) (*response.VoucherCodeResponse, error) {
	var consumed *entity.VoucherCode

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		consumed, err = consumeVoucherCode(txCtx, s.repo, voucherID, backup)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := response.VoucherCodeToResponse(consumed)
	return &resp, nil
}

// consumeVoucherCode selects the oldest active code of the requested kind,
// marks it used and moves the voucher counters, all under the voucher row
// lock so racing consumptions serialize at the exhaustion boundary. It must
// run inside an open transaction.
func consumeVoucherCode(ctx context.Context, repo *repository.Repository, voucherID uuid.UUID, backup bool) (*entity.VoucherCode, error) {
	voucher, err := repo.Voucher.FindByIDForUpdate(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperr.NotFound("voucher not found")
	}

	if backup && voucher.BackupSessionsRemaining() <= 0 {
		return nil, apperr.NoBackupAvailable("no backup sessions remaining")
	}
	if !backup && voucher.SessionsRemaining() <= 0 {
		return nil, apperr.Exhausted("no sessions remaining")
	}

	code, err := repo.VoucherCode.FindFirstActiveForUpdate(ctx, voucherID, backup)
	if err != nil {
		return nil, err
	}
	if code == nil {
		if backup {
			return nil, apperr.NoBackupAvailable("no active backup code remains")
		}
		return nil, apperr.Exhausted("no active regular code remains")
	}

	if err := repo.VoucherCode.MarkUsed(ctx, code.ID); err != nil {
		return nil, err
	}

	now := time.Now()
	if backup {
		voucher.UsedBackupSessions++
	} else {
		voucher.UsedSessions++
	}
	voucher.UpdatedAt = now
	voucher.RecomputeStatus(now)

	if err := repo.Voucher.Update(ctx, voucher); err != nil {
		return nil, err
	}

	code.Status = entity.CodeStatusUsed
	code.UsedCount++
	return code, nil
}

func (s *voucherService) GetStatus(ctx context.Context, voucherID, actorID uuid.UUID, role entity.UserRole) (*response.VoucherStatusResponse, error) {
	voucher, err := s.repo.Voucher.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, apperr.NotFound("voucher not found")
	}
	if role == entity.RoleClient && (voucher.ClientID == nil || *voucher.ClientID != actorID) {
		return nil, apperr.NotFound("voucher not found")
	}

	codes, err := s.repo.VoucherCode.ListByVoucher(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session.List(ctx, repository.SessionFilter{VoucherID: &voucherID})
	if err != nil {
		return nil, err
	}

	resp := &response.VoucherStatusResponse{
		Voucher: response.VoucherToResponse(voucher),
	}
	for _, c := range codes {
		resp.Codes = append(resp.Codes, response.VoucherCodeToResponse(c))
	}

	today := truncateToDay(time.Now())
	for _, sess := range sessions {
		switch {
		case sess.Status == entity.SessionStatusCompleted:
			resp.CompletedSessions++
		case sess.Status == entity.SessionStatusNoShow:
			resp.NoShowSessions++
		case sess.IsUpcoming(today):
			resp.UpcomingSessions = append(resp.UpcomingSessions, response.SessionToResponse(sess))
		}
	}

	return resp, nil
}

func (s *voucherService) List(ctx context.Context, actorID uuid.UUID, role entity.UserRole, orgID *uuid.UUID) ([]response.VoucherResponse, error) {
	filter := repository.VoucherFilter{}
	switch role {
	case entity.RoleClient:
		filter.ClientID = &actorID
	default:
		filter.OrganizationID = orgID
	}

	vouchers, err := s.repo.Voucher.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]response.VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		responses = append(responses, response.VoucherToResponse(v))
	}
	return responses, nil
}

func (s *voucherService) CreateReservation(ctx context.Context, clientID uuid.UUID, req *request.CreateReservationRequest) (*response.ReservationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create reservation validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	therapistID, err := uuid.Parse(req.TherapistID)
	if err != nil {
		return nil, apperr.Validation("invalid therapist ID")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperr.Validation("invalid start date")
	}

	therapist, err := s.repo.User.FindByID(ctx, therapistID)
	if err != nil {
		return nil, err
	}
	if therapist == nil || therapist.Role != entity.RoleTherapist {
		return nil, apperr.NotFound("therapist not found")
	}

	var reservation *entity.Reservation
	var sessions []*entity.TherapySession

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		vc, err := s.repo.VoucherCode.FindByCode(txCtx, req.Code)
		if err != nil {
			return err
		}
		if vc == nil {
			return apperr.NotFound("voucher code not found")
		}
		if vc.Status != entity.CodeStatusActive {
			return apperr.InvalidState("voucher code is %s", vc.Status)
		}

		voucher, err := s.repo.Voucher.FindByIDForUpdate(txCtx, vc.VoucherID)
		if err != nil {
			return err
		}
		if voucher == nil {
			return apperr.NotFound("voucher not found")
		}
		if voucher.ClientID == nil || *voucher.ClientID != clientID {
			return apperr.NotFound("voucher not found")
		}
		if voucher.Status != entity.VoucherStatusActive {
			return apperr.InvalidState("voucher is %s", voucher.Status)
		}

		vt, err := s.repo.VoucherType.FindByID(txCtx, voucher.VoucherTypeID)
		if err != nil {
			return err
		}
		if vt == nil {
			return apperr.NotFound("voucher type not found")
		}

		slots, err := GenerateSessionSlots(vt, startDate, req.StartTime)
		if err != nil {
			return err
		}

		// Booking a series spends the presented code.
		if err := s.repo.VoucherCode.MarkUsed(txCtx, vc.ID); err != nil {
			return err
		}

		now := time.Now()
		reservation = &entity.Reservation{
			Base:          entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			VoucherCodeID: vc.ID,
			VoucherID:     voucher.ID,
			TherapistID:   therapistID,
			ClientID:      clientID,
			StartDate:     slots[0].Date,
		}
		if err := s.repo.Reservation.Create(txCtx, reservation); err != nil {
			return err
		}

		sessions = buildSessions(voucher, vt, slots, clientID, therapistID, &reservation.ID, now)
		for i := range sessions {
			sessions[i].SessionType = req.SessionType
			sessions[i].Location = req.Location
		}
		if err := s.repo.Session.CreateBatch(txCtx, sessions); err != nil {
			return err
		}

		return s.audit(txCtx, &clientID, voucher.OrganizationID, "reservation.create", "reservation", reservation.ID, nil, reservation)
	})
	if err != nil {
		s.log.Error("Create reservation failed", zap.Error(err))
		return nil, err
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.Int("sessions", len(sessions)),
	)

	return &response.ReservationResponse{
		ID:          reservation.ID.String(),
		VoucherID:   reservation.VoucherID.String(),
		TherapistID: reservation.TherapistID.String(),
		ClientID:    reservation.ClientID.String(),
		StartDate:   reservation.StartDate,
		Sessions:    response.SessionsToResponse(sessions),
	}, nil
}

// buildSessions materializes scheduler slots into session rows. The slots are
// a snapshot: later voucher type edits never touch these rows.
func buildSessions(voucher *entity.Voucher, vt *entity.VoucherType, slots []SessionSlot, clientID, therapistID uuid.UUID, reservationID *uuid.UUID, now time.Time) []*entity.TherapySession {
	sessions := make([]*entity.TherapySession, 0, len(slots))
	for _, slot := range slots {
		sessions = append(sessions, &entity.TherapySession{
			Base:            entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			ReservationID:   reservationID,
			VoucherID:       voucher.ID,
			ClientID:        clientID,
			TherapistID:     therapistID,
			OrganizationID:  voucher.OrganizationID,
			ScheduledDate:   slot.Date,
			ScheduledTime:   slot.Time,
			DurationMinutes: slot.DurationMinutes,
			SessionType:     vt.SessionName,
			Status:          entity.SessionStatusScheduled,
		})
	}
	return sessions
}

func (s *voucherService) audit(ctx context.Context, userID *uuid.UUID, orgID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValues, newValues any) error {
	return writeAudit(ctx, s.repo.Audit, userID, &orgID, action, entityType, entityID, oldValues, newValues)
}

// writeAudit records a mutation in the same transaction as the mutation
// itself, so a rolled-back change leaves no audit row behind.
func writeAudit(ctx context.Context, audits repository.AuditRepository, userID, orgID *uuid.UUID, action, entityType string, entityID uuid.UUID, oldValues, newValues any) error {
	log := &entity.AuditLog{
		BaseSimple:     entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: time.Now()},
		UserID:         userID,
		OrganizationID: orgID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       &entityID,
	}
	if oldValues != nil {
		data, err := json.Marshal(oldValues)
		if err != nil {
			return err
		}
		log.OldValues = data
	}
	if newValues != nil {
		data, err := json.Marshal(newValues)
		if err != nil {
			return err
		}
		log.NewValues = data
	}
	return audits.Create(ctx, log)
}
