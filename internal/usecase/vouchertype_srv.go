package usecase

import (
	"context"
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

type VoucherTypeService interface {
	Create(ctx context.Context, actorID, orgID uuid.UUID, req *request.CreateVoucherTypeRequest) (*response.VoucherTypeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.VoucherTypeResponse, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, isActive *bool) ([]response.VoucherTypeResponse, error)
	ListAvailable(ctx context.Context) ([]response.VoucherTypeResponse, error)
	Update(ctx context.Context, actorID, orgID, id uuid.UUID, req *request.UpdateVoucherTypeRequest) (*response.VoucherTypeResponse, error)
	Deactivate(ctx context.Context, actorID, orgID, id uuid.UUID) error
}

type voucherTypeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVoucherTypeService(repo *repository.Repository, log *zap.Logger) VoucherTypeService {
	return &voucherTypeService{
		repo: repo,
		log:  log.With(zap.String("service", "voucher_type")),
	}
}

func (s *voucherTypeService) Create(ctx context.Context, actorID, orgID uuid.UUID, req *request.CreateVoucherTypeRequest) (*response.VoucherTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create voucher type validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	rules := toBookingRules(req.BookingRules)
	if err := validatePlan(entity.Frequency(req.Frequency), req.CustomDays, rules); err != nil {
		return nil, err
	}

	now := time.Now()
	vt := &entity.VoucherType{
		Base:                   entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		OrganizationID:         orgID,
		Name:                   req.Name,
		SessionName:            req.SessionName,
		Description:            req.Description,
		TotalSessions:          req.TotalSessions,
		BackupSessions:         req.BackupSessions,
		SessionDurationMinutes: req.SessionDurationMinutes,
		MaxClientsPerSession:   req.MaxClientsPerSession,
		Frequency:              entity.Frequency(req.Frequency),
		CustomDays:             req.CustomDays,
		Price:                  req.Price,
		ValidityDays:           req.ValidityDays,
		BookingRules:           rules,
		IsActive:               true,
	}

	err := s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.VoucherType.Create(txCtx, vt); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &actorID, &orgID,
			"voucher_type.create", "voucher_type", vt.ID, nil, vt)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Voucher type created",
		zap.String("voucher_type_id", vt.ID.String()),
		zap.String("name", vt.Name),
	)

	resp := response.VoucherTypeToResponse(vt)
	return &resp, nil
}

func (s *voucherTypeService) GetByID(ctx context.Context, id uuid.UUID) (*response.VoucherTypeResponse, error) {
	vt, err := s.repo.VoucherType.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, apperr.NotFound("voucher type not found")
	}
	resp := response.VoucherTypeToResponse(vt)
	return &resp, nil
}

func (s *voucherTypeService) ListByOrganization(ctx context.Context, orgID uuid.UUID, isActive *bool) ([]response.VoucherTypeResponse, error) {
	types, err := s.repo.VoucherType.ListByOrganization(ctx, orgID, isActive)
	if err != nil {
		return nil, err
	}
	return toVoucherTypeResponses(types), nil
}

func (s *voucherTypeService) ListAvailable(ctx context.Context) ([]response.VoucherTypeResponse, error) {
	types, err := s.repo.VoucherType.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return toVoucherTypeResponses(types), nil
}

// Update edits the sales template in place. Sessions already generated from
// it are materialized rows and stay untouched.
func (s *voucherTypeService) Update(ctx context.Context, actorID, orgID, id uuid.UUID, req *request.UpdateVoucherTypeRequest) (*response.VoucherTypeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	vt, err := s.repo.VoucherType.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vt == nil || vt.OrganizationID != orgID {
		return nil, apperr.NotFound("voucher type not found")
	}

	old := *vt
	applyVoucherTypeUpdate(vt, req)
	if err := validatePlan(vt.Frequency, vt.CustomDays, vt.BookingRules); err != nil {
		return nil, err
	}
	vt.UpdatedAt = time.Now()

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.VoucherType.Update(txCtx, vt); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &actorID, &orgID,
			"voucher_type.update", "voucher_type", vt.ID, &old, vt)
	})
	if err != nil {
		return nil, err
	}

	resp := response.VoucherTypeToResponse(vt)
	return &resp, nil
}

func (s *voucherTypeService) Deactivate(ctx context.Context, actorID, orgID, id uuid.UUID) error {
	vt, err := s.repo.VoucherType.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if vt == nil || vt.OrganizationID != orgID {
		return apperr.NotFound("voucher type not found")
	}
	if !vt.IsActive {
		return apperr.Conflict("voucher type is already deactivated")
	}

	return s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.VoucherType.Deactivate(txCtx, id); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &actorID, &orgID,
			"voucher_type.deactivate", "voucher_type", id, vt, nil)
	})
}

// validatePlan rejects plans the scheduler could never expand: no bookable
// weekday, missing custom days, or a window that ends before it starts.
func validatePlan(freq entity.Frequency, customDays []int, rules entity.BookingRules) error {
	if freq == entity.FrequencyCustom && len(customDays) == 0 {
		return apperr.Validation("custom frequency requires custom days")
	}
	if !rules.HasEnabledDay() {
		return apperr.Validation("at least one weekday must be bookable")
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		rule := rules.RuleFor(d)
		if !rule.Enabled || rule.StartTime == "" || rule.EndTime == "" {
			continue
		}
		if rule.EndTime <= rule.StartTime {
			return apperr.Validation("booking window on %s ends before it starts", d)
		}
	}
	return nil
}

func toBookingRules(req request.BookingRulesRequest) entity.BookingRules {
	conv := func(r request.BookingRuleRequest) entity.BookingRule {
		return entity.BookingRule{Enabled: r.Enabled, StartTime: r.StartTime, EndTime: r.EndTime}
	}
	return entity.BookingRules{
		Monday:    conv(req.Monday),
		Tuesday:   conv(req.Tuesday),
		Wednesday: conv(req.Wednesday),
		Thursday:  conv(req.Thursday),
		Friday:    conv(req.Friday),
		Saturday:  conv(req.Saturday),
		Sunday:    conv(req.Sunday),
	}
}

func applyVoucherTypeUpdate(vt *entity.VoucherType, req *request.UpdateVoucherTypeRequest) {
	if req.Name != nil {
		vt.Name = *req.Name
	}
	if req.SessionName != nil {
		vt.SessionName = *req.SessionName
	}
	if req.Description != nil {
		vt.Description = req.Description
	}
	if req.TotalSessions != nil {
		vt.TotalSessions = *req.TotalSessions
	}
	if req.BackupSessions != nil {
		vt.BackupSessions = *req.BackupSessions
	}
	if req.SessionDurationMinutes != nil {
		vt.SessionDurationMinutes = *req.SessionDurationMinutes
	}
	if req.MaxClientsPerSession != nil {
		vt.MaxClientsPerSession = *req.MaxClientsPerSession
	}
	if req.Frequency != nil {
		vt.Frequency = entity.Frequency(*req.Frequency)
	}
	if req.CustomDays != nil {
		vt.CustomDays = req.CustomDays
	}
	if req.Price != nil {
		vt.Price = *req.Price
	}
	if req.ValidityDays != nil {
		vt.ValidityDays = *req.ValidityDays
	}
	if req.BookingRules != nil {
		vt.BookingRules = toBookingRules(*req.BookingRules)
	}
}

func toVoucherTypeResponses(types []*entity.VoucherType) []response.VoucherTypeResponse {
	responses := make([]response.VoucherTypeResponse, 0, len(types))
	for _, vt := range types {
		responses = append(responses, response.VoucherTypeToResponse(vt))
	}
	return responses
}
