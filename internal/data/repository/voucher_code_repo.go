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

type VoucherCodeRepository interface {
	CreateBatch(ctx context.Context, codes []*entity.VoucherCode) error
	FindByCode(ctx context.Context, code string) (*entity.VoucherCode, error)
	// FindFirstActiveForUpdate locks and returns the oldest active code of
	// the given kind for a voucher, in insertion order. Callers must be
	// inside WithinTx.
	FindFirstActiveForUpdate(ctx context.Context, voucherID uuid.UUID, isBackup bool) (*entity.VoucherCode, error)
	ListByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*entity.VoucherCode, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, code string) (bool, error)
}

type voucherCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVoucherCodeRepository(db database.PgxIface, log *zap.Logger) VoucherCodeRepository {
	return &voucherCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "voucher_code")),
	}
}

const voucherCodeColumns = `id, voucher_id, code, is_backup, status, used_count, max_uses, created_at`

func scanVoucherCode(row pgx.Row) (*entity.VoucherCode, error) {
	var c entity.VoucherCode
	err := row.Scan(
		&c.ID,
		&c.VoucherID,
		&c.Code,
		&c.IsBackup,
		&c.Status,
		&c.UsedCount,
		&c.MaxUses,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *voucherCodeRepository) CreateBatch(ctx context.Context, codes []*entity.VoucherCode) error {
	query := `
		INSERT INTO voucher_codes (id, voucher_id, code, is_backup, status, used_count, max_uses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	q := database.QuerierFrom(ctx, r.db)
	for _, c := range codes {
		_, err := q.Exec(ctx, query,
			c.ID,
			c.VoucherID,
			c.Code,
			c.IsBackup,
			c.Status,
			c.UsedCount,
			c.MaxUses,
			c.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create voucher code",
				zap.Error(err),
				zap.String("code", c.Code),
				zap.String("voucher_id", c.VoucherID.String()),
			)
			return fmt.Errorf("create voucher code %s: %w", c.Code, err)
		}
	}

	return nil
}

func (r *voucherCodeRepository) FindByCode(ctx context.Context, code string) (*entity.VoucherCode, error) {
	query := `SELECT ` + voucherCodeColumns + ` FROM voucher_codes WHERE code = $1`

	q := database.QuerierFrom(ctx, r.db)
	c, err := scanVoucherCode(q.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voucher code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find voucher code %s: %w", code, err)
	}

	return c, nil
}

func (r *voucherCodeRepository) FindFirstActiveForUpdate(ctx context.Context, voucherID uuid.UUID, isBackup bool) (*entity.VoucherCode, error) {
	query := `
		SELECT ` + voucherCodeColumns + `
		FROM voucher_codes
		WHERE voucher_id = $1 AND is_backup = $2 AND status = 'active'
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE
	`

	q := database.QuerierFrom(ctx, r.db)
	c, err := scanVoucherCode(q.QueryRow(ctx, query, voucherID, isBackup))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active voucher code",
			zap.Error(err),
			zap.String("voucher_id", voucherID.String()),
			zap.Bool("is_backup", isBackup),
		)
		return nil, fmt.Errorf("find active voucher code for voucher %s: %w", voucherID.String(), err)
	}

	return c, nil
}

func (r *voucherCodeRepository) ListByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*entity.VoucherCode, error) {
	query := `SELECT ` + voucherCodeColumns + ` FROM voucher_codes WHERE voucher_id = $1 ORDER BY is_backup, created_at`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, voucherID)
	if err != nil {
		r.log.Error("Failed to list voucher codes",
			zap.Error(err),
			zap.String("voucher_id", voucherID.String()),
		)
		return nil, fmt.Errorf("list voucher codes for voucher %s: %w", voucherID.String(), err)
	}
	defer rows.Close()

	var codes []*entity.VoucherCode
	for rows.Next() {
		c, err := scanVoucherCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher code row: %w", err)
		}
		codes = append(codes, c)
	}

	return codes, nil
}

func (r *voucherCodeRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE voucher_codes
		SET used_count = used_count + 1,
			status = CASE WHEN used_count + 1 >= max_uses THEN 'used' ELSE status END
		WHERE id = $1 AND status = 'active'
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark voucher code used",
			zap.Error(err),
			zap.String("voucher_code_id", id.String()),
		)
		return fmt.Errorf("mark voucher code %s used: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *voucherCodeRepository) Exists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM voucher_codes WHERE code = $1)`

	q := database.QuerierFrom(ctx, r.db)
	var exists bool
	if err := q.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.log.Error("Failed to check voucher code existence",
			zap.Error(err),
			zap.String("code", code),
		)
		return false, fmt.Errorf("check voucher code %s: %w", code, err)
	}

	return exists, nil
}
