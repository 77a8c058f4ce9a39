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

type OrganizationService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *request.CreateOrganizationRequest) (*response.OrganizationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.OrganizationResponse, error)
	List(ctx context.Context, isActive *bool) ([]response.OrganizationResponse, error)
	Update(ctx context.Context, actorID, orgID uuid.UUID, req *request.UpdateOrganizationRequest) (*response.OrganizationResponse, error)
	ListAuditLogs(ctx context.Context, orgID uuid.UUID, page, perPage int) (*response.PaginatedResponse[response.AuditLogResponse], error)
	GetEntityHistory(ctx context.Context, orgID uuid.UUID, entityType string, entityID uuid.UUID) ([]response.AuditLogResponse, error)
}

type organizationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewOrganizationService(repo *repository.Repository, log *zap.Logger) OrganizationService {
	return &organizationService{
		repo: repo,
		log:  log.With(zap.String("service", "organization")),
	}
}

// Create registers an organization and promotes the creating user to its
// owner, in one transaction.
func (s *organizationService) Create(ctx context.Context, ownerID uuid.UUID, req *request.CreateOrganizationRequest) (*response.OrganizationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create organization validation failed", zap.Any("errors", errs))
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	owner, err := s.repo.User.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperr.NotFound("user not found")
	}
	if owner.OrganizationID != nil {
		return nil, apperr.Conflict("user already belongs to an organization")
	}

	slug := utils.Slugify(req.Name)
	existing, err := s.repo.Organization.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("an organization with a similar name already exists")
	}

	now := time.Now()
	org := &entity.Organization{
		Base:     entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Name:     req.Name,
		Slug:     slug,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		TaxID:    req.TaxID,
		LogoURL:  req.LogoURL,
		IsActive: true,
	}

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Organization.Create(txCtx, org); err != nil {
			return err
		}

		owner.OrganizationID = &org.ID
		owner.IsOrganizationOwner = true
		owner.Role = entity.RoleOrganizationOwner
		owner.UpdatedAt = now
		if err := s.repo.User.Update(txCtx, owner); err != nil {
			return err
		}

		return writeAudit(txCtx, s.repo.Audit, &ownerID, &org.ID,
			"organization.create", "organization", org.ID, nil, org)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)

	resp := response.OrganizationToResponse(org)
	return &resp, nil
}

func (s *organizationService) GetByID(ctx context.Context, id uuid.UUID) (*response.OrganizationResponse, error) {
	org, err := s.repo.Organization.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}
	resp := response.OrganizationToResponse(org)
	return &resp, nil
}

func (s *organizationService) List(ctx context.Context, isActive *bool) ([]response.OrganizationResponse, error) {
	orgs, err := s.repo.Organization.List(ctx, isActive)
	if err != nil {
		return nil, err
	}

	responses := make([]response.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		responses = append(responses, response.OrganizationToResponse(o))
	}
	return responses, nil
}

func (s *organizationService) Update(ctx context.Context, actorID, orgID uuid.UUID, req *request.UpdateOrganizationRequest) (*response.OrganizationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", utils.FormatValidationErrors(errs))
	}

	org, err := s.repo.Organization.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperr.NotFound("organization not found")
	}

	old := *org
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.Phone != nil {
		org.Phone = req.Phone
	}
	if req.Email != nil {
		org.Email = req.Email
	}
	if req.TaxID != nil {
		org.TaxID = req.TaxID
	}
	if req.LogoURL != nil {
		org.LogoURL = req.LogoURL
	}
	org.UpdatedAt = time.Now()

	err = s.repo.Tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Organization.Update(txCtx, org); err != nil {
			return err
		}
		return writeAudit(txCtx, s.repo.Audit, &actorID, &org.ID,
			"organization.update", "organization", org.ID, &old, org)
	})
	if err != nil {
		return nil, err
	}

	resp := response.OrganizationToResponse(org)
	return &resp, nil
}

// ListAuditLogs returns the organization's audit trail, newest first.
func (s *organizationService) ListAuditLogs(ctx context.Context, orgID uuid.UUID, page, perPage int) (*response.PaginatedResponse[response.AuditLogResponse], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := utils.CalculateOffset(page, perPage)
	logs, err := s.repo.Audit.ListByOrganization(ctx, orgID, perPage, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Audit.CountByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.AuditLogsToResponse(logs), page, perPage, total), nil
}

// GetEntityHistory returns the audit rows recorded for one entity, restricted
// to the caller's organization.
func (s *organizationService) GetEntityHistory(ctx context.Context, orgID uuid.UUID, entityType string, entityID uuid.UUID) ([]response.AuditLogResponse, error) {
	logs, err := s.repo.Audit.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	scoped := make([]*entity.AuditLog, 0, len(logs))
	for _, l := range logs {
		if l.OrganizationID != nil && *l.OrganizationID == orgID {
			scoped = append(scoped, l)
		}
	}
	return response.AuditLogsToResponse(scoped), nil
}
