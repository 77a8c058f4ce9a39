package repository

import (
	"context"
	"fmt"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Organization, error)
	List(ctx context.Context, isActive *bool) ([]*entity.Organization, error)
	Update(ctx context.Context, org *entity.Organization) error
}

type organizationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrganizationRepository(db database.PgxIface, log *zap.Logger) OrganizationRepository {
	return &organizationRepository{
		db:  db,
		log: log.With(zap.String("repository", "organization")),
	}
}

const orgColumns = `id, name, slug, address, phone, email, tax_id, logo_url,
	is_active, created_at, updated_at, deleted_at`

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	var org entity.Organization
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Address,
		&org.Phone,
		&org.Email,
		&org.TaxID,
		&org.LogoURL,
		&org.IsActive,
		&org.CreatedAt,
		&org.UpdatedAt,
		&org.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, address, phone, email, tax_id,
			logo_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.Address,
		org.Phone,
		org.Email,
		org.TaxID,
		org.LogoURL,
		org.IsActive,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create organization",
			zap.Error(err),
			zap.String("name", org.Name),
		)
		return fmt.Errorf("create organization %s: %w", org.Name, err)
	}

	return nil
}

func (r *organizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1 AND deleted_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	org, err := scanOrganization(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find organization by ID",
			zap.Error(err),
			zap.String("organization_id", id.String()),
		)
		return nil, fmt.Errorf("find organization by ID %s: %w", id.String(), err)
	}

	return org, nil
}

func (r *organizationRepository) FindBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE slug = $1 AND deleted_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	org, err := scanOrganization(q.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find organization by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find organization by slug %s: %w", slug, err)
	}

	return org, nil
}

func (r *organizationRepository) List(ctx context.Context, isActive *bool) ([]*entity.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE deleted_at IS NULL`
	args := []any{}

	if isActive != nil {
		args = append(args, *isActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	query += " ORDER BY name"

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list organizations", zap.Error(err))
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*entity.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			r.log.Error("Failed to scan organization row", zap.Error(err))
			return nil, fmt.Errorf("scan organization row: %w", err)
		}
		orgs = append(orgs, org)
	}

	return orgs, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	query := `
		UPDATE organizations
		SET name = $2, address = $3, phone = $4, email = $5, tax_id = $6,
			logo_url = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query,
		org.ID,
		org.Name,
		org.Address,
		org.Phone,
		org.Email,
		org.TaxID,
		org.LogoURL,
		org.IsActive,
		org.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update organization",
			zap.Error(err),
			zap.String("organization_id", org.ID.String()),
		)
		return fmt.Errorf("update organization %s: %w", org.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
