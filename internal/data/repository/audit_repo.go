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

type AuditRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error)
	CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
}

type auditRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuditRepository(db database.PgxIface, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

const auditColumns = `id, user_id, organization_id, action, entity_type, entity_id,
	old_values, new_values, created_at`

func scanAuditLog(row pgx.Row) (*entity.AuditLog, error) {
	var a entity.AuditLog
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.OrganizationID,
		&a.Action,
		&a.EntityType,
		&a.EntityID,
		&a.OldValues,
		&a.NewValues,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *auditRepository) Create(ctx context.Context, a *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, organization_id, action, entity_type, entity_id,
			old_values, new_values, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.OrganizationID,
		a.Action,
		a.EntityType,
		a.EntityID,
		a.OldValues,
		a.NewValues,
		a.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create audit log",
			zap.Error(err),
			zap.String("action", a.Action),
			zap.String("entity_type", a.EntityType),
		)
		return fmt.Errorf("create audit log for action %s: %w", a.Action, err)
	}

	return nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, entityType, entityID)
	if err != nil {
		r.log.Error("Failed to list audit logs by entity",
			zap.Error(err),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
		)
		return nil, fmt.Errorf("list audit logs for %s %s: %w", entityType, entityID.String(), err)
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

func (r *auditRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list audit logs by organization",
			zap.Error(err),
			zap.String("organization_id", orgID.String()),
		)
		return nil, fmt.Errorf("list audit logs for organization %s: %w", orgID.String(), err)
	}
	defer rows.Close()

	return collectAuditLogs(rows)
}

func (r *auditRepository) CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM audit_logs WHERE organization_id = $1`

	q := database.QuerierFrom(ctx, r.db)
	var count int64
	if err := q.QueryRow(ctx, query, orgID).Scan(&count); err != nil {
		r.log.Error("Failed to count audit logs",
			zap.Error(err),
			zap.String("organization_id", orgID.String()),
		)
		return 0, fmt.Errorf("count audit logs for organization %s: %w", orgID.String(), err)
	}
	return count, nil
}

func collectAuditLogs(rows pgx.Rows) ([]*entity.AuditLog, error) {
	var logs []*entity.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log row: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, nil
}
