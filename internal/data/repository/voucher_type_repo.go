package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VoucherTypeRepository interface {
	Create(ctx context.Context, vt *entity.VoucherType) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VoucherType, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, isActive *bool) ([]*entity.VoucherType, error)
	ListAvailable(ctx context.Context) ([]*entity.VoucherType, error)
	Update(ctx context.Context, vt *entity.VoucherType) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type voucherTypeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVoucherTypeRepository(db database.PgxIface, log *zap.Logger) VoucherTypeRepository {
	return &voucherTypeRepository{
		db:  db,
		log: log.With(zap.String("repository", "voucher_type")),
	}
}

const voucherTypeColumns = `id, organization_id, name, session_name, description,
	total_sessions, backup_sessions, session_duration_minutes, max_clients_per_session,
	frequency, custom_days, price, validity_days, booking_rules, is_active,
	deactivated_at, created_at, updated_at, deleted_at`

func scanVoucherType(row pgx.Row) (*entity.VoucherType, error) {
	var vt entity.VoucherType
	var customDays []int32
	var rulesJSON []byte

	err := row.Scan(
		&vt.ID,
		&vt.OrganizationID,
		&vt.Name,
		&vt.SessionName,
		&vt.Description,
		&vt.TotalSessions,
		&vt.BackupSessions,
		&vt.SessionDurationMinutes,
		&vt.MaxClientsPerSession,
		&vt.Frequency,
		&customDays,
		&vt.Price,
		&vt.ValidityDays,
		&rulesJSON,
		&vt.IsActive,
		&vt.DeactivatedAt,
		&vt.CreatedAt,
		&vt.UpdatedAt,
		&vt.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, d := range customDays {
		vt.CustomDays = append(vt.CustomDays, int(d))
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &vt.BookingRules); err != nil {
			return nil, fmt.Errorf("decode booking rules: %w", err)
		}
	}

	return &vt, nil
}

func (r *voucherTypeRepository) Create(ctx context.Context, vt *entity.VoucherType) error {
	rulesJSON, err := json.Marshal(vt.BookingRules)
	if err != nil {
		return fmt.Errorf("encode booking rules: %w", err)
	}

	customDays := make([]int32, len(vt.CustomDays))
	for i, d := range vt.CustomDays {
		customDays[i] = int32(d)
	}

	query := `
		INSERT INTO voucher_types (id, organization_id, name, session_name, description,
			total_sessions, backup_sessions, session_duration_minutes, max_clients_per_session,
			frequency, custom_days, price, validity_days, booking_rules, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err = q.Exec(ctx, query,
		vt.ID,
		vt.OrganizationID,
		vt.Name,
		vt.SessionName,
		vt.Description,
		vt.TotalSessions,
		vt.BackupSessions,
		vt.SessionDurationMinutes,
		vt.MaxClientsPerSession,
		vt.Frequency,
		customDays,
		vt.Price,
		vt.ValidityDays,
		rulesJSON,
		vt.IsActive,
		vt.CreatedAt,
		vt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create voucher type",
			zap.Error(err),
			zap.String("name", vt.Name),
			zap.String("organization_id", vt.OrganizationID.String()),
		)
		return fmt.Errorf("create voucher type %s: %w", vt.Name, err)
	}

	return nil
}

func (r *voucherTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VoucherType, error) {
	query := `SELECT ` + voucherTypeColumns + ` FROM voucher_types WHERE id = $1 AND deleted_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	vt, err := scanVoucherType(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voucher type by ID",
			zap.Error(err),
			zap.String("voucher_type_id", id.String()),
		)
		return nil, fmt.Errorf("find voucher type by ID %s: %w", id.String(), err)
	}

	return vt, nil
}

func (r *voucherTypeRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, isActive *bool) ([]*entity.VoucherType, error) {
	query := `SELECT ` + voucherTypeColumns + ` FROM voucher_types WHERE organization_id = $1 AND deleted_at IS NULL`
	args := []any{orgID}

	if isActive != nil {
		args = append(args, *isActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	query += " ORDER BY name"

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list voucher types",
			zap.Error(err),
			zap.String("organization_id", orgID.String()),
		)
		return nil, fmt.Errorf("list voucher types for organization %s: %w", orgID.String(), err)
	}
	defer rows.Close()

	return collectVoucherTypes(rows)
}

func (r *voucherTypeRepository) ListAvailable(ctx context.Context) ([]*entity.VoucherType, error) {
	query := `
		SELECT ` + prefixColumns("vt", voucherTypeColumns) + `
		FROM voucher_types vt
		JOIN organizations o ON vt.organization_id = o.id
		WHERE vt.is_active = true AND o.is_active = true
			AND vt.deleted_at IS NULL AND o.deleted_at IS NULL
		ORDER BY o.name, vt.name
	`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list available voucher types", zap.Error(err))
		return nil, fmt.Errorf("list available voucher types: %w", err)
	}
	defer rows.Close()

	return collectVoucherTypes(rows)
}

func (r *voucherTypeRepository) Update(ctx context.Context, vt *entity.VoucherType) error {
	rulesJSON, err := json.Marshal(vt.BookingRules)
	if err != nil {
		return fmt.Errorf("encode booking rules: %w", err)
	}

	customDays := make([]int32, len(vt.CustomDays))
	for i, d := range vt.CustomDays {
		customDays[i] = int32(d)
	}

	query := `
		UPDATE voucher_types
		SET name = $2, session_name = $3, description = $4, total_sessions = $5,
			backup_sessions = $6, session_duration_minutes = $7, max_clients_per_session = $8,
			frequency = $9, custom_days = $10, price = $11, validity_days = $12,
			booking_rules = $13, is_active = $14, updated_at = $15
		WHERE id = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query,
		vt.ID,
		vt.Name,
		vt.SessionName,
		vt.Description,
		vt.TotalSessions,
		vt.BackupSessions,
		vt.SessionDurationMinutes,
		vt.MaxClientsPerSession,
		vt.Frequency,
		customDays,
		vt.Price,
		vt.ValidityDays,
		rulesJSON,
		vt.IsActive,
		vt.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update voucher type",
			zap.Error(err),
			zap.String("voucher_type_id", vt.ID.String()),
		)
		return fmt.Errorf("update voucher type %s: %w", vt.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *voucherTypeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE voucher_types
		SET is_active = false, deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate voucher type",
			zap.Error(err),
			zap.String("voucher_type_id", id.String()),
		)
		return fmt.Errorf("deactivate voucher type %s: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func collectVoucherTypes(rows pgx.Rows) ([]*entity.VoucherType, error) {
	var types []*entity.VoucherType
	for rows.Next() {
		vt, err := scanVoucherType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher type row: %w", err)
		}
		types = append(types, vt)
	}
	return types, nil
}
