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

type VoucherFilter struct {
	ClientID       *uuid.UUID
	OrganizationID *uuid.UUID
	Status         *entity.VoucherStatus
}

type VoucherRepository interface {
	Create(ctx context.Context, v *entity.Voucher) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	// FindByIDForUpdate locks the voucher row for the duration of the
	// surrounding transaction. Callers must be inside WithinTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Voucher, error)
	List(ctx context.Context, filter VoucherFilter) ([]*entity.Voucher, error)
	Update(ctx context.Context, v *entity.Voucher) error
	// CountPurchasedInYear returns how many vouchers were purchased in the
	// given calendar year. Invoice sequence numbers derive from it, so the
	// count is platform-wide; the invoice_number unique index catches the
	// rare race between concurrent purchases.
	CountPurchasedInYear(ctx context.Context, year int) (int64, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type voucherRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVoucherRepository(db database.PgxIface, log *zap.Logger) VoucherRepository {
	return &voucherRepository{
		db:  db,
		log: log.With(zap.String("repository", "voucher")),
	}
}

const voucherColumns = `id, client_id, voucher_type_id, organization_id, purchase_date,
	valid_until, activated_at, total_sessions, used_sessions, backup_sessions,
	used_backup_sessions, status, payment_method, payment_status, payment_amount,
	payment_date, invoice_number, created_at, updated_at, deleted_at`

func scanVoucher(row pgx.Row) (*entity.Voucher, error) {
	var v entity.Voucher
	err := row.Scan(
		&v.ID,
		&v.ClientID,
		&v.VoucherTypeID,
		&v.OrganizationID,
		&v.PurchaseDate,
		&v.ValidUntil,
		&v.ActivatedAt,
		&v.TotalSessions,
		&v.UsedSessions,
		&v.BackupSessions,
		&v.UsedBackupSessions,
		&v.Status,
		&v.PaymentMethod,
		&v.PaymentStatus,
		&v.PaymentAmount,
		&v.PaymentDate,
		&v.InvoiceNumber,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voucherRepository) Create(ctx context.Context, v *entity.Voucher) error {
	query := `
		INSERT INTO vouchers (id, client_id, voucher_type_id, organization_id, purchase_date,
			valid_until, activated_at, total_sessions, used_sessions, backup_sessions,
			used_backup_sessions, status, payment_method, payment_status, payment_amount,
			payment_date, invoice_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		v.ID,
		v.ClientID,
		v.VoucherTypeID,
		v.OrganizationID,
		v.PurchaseDate,
		v.ValidUntil,
		v.ActivatedAt,
		v.TotalSessions,
		v.UsedSessions,
		v.BackupSessions,
		v.UsedBackupSessions,
		v.Status,
		v.PaymentMethod,
		v.PaymentStatus,
		v.PaymentAmount,
		v.PaymentDate,
		v.InvoiceNumber,
		v.CreatedAt,
		v.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create voucher",
			zap.Error(err),
			zap.String("voucher_id", v.ID.String()),
			zap.String("invoice_number", v.InvoiceNumber),
		)
		return fmt.Errorf("create voucher %s: %w", v.ID.String(), err)
	}

	return nil
}

func (r *voucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

func (r *voucherRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *voucherRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Voucher, error) {
	q := database.QuerierFrom(ctx, r.db)
	v, err := scanVoucher(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voucher by ID",
			zap.Error(err),
			zap.String("voucher_id", id.String()),
		)
		return nil, fmt.Errorf("find voucher by ID %s: %w", id.String(), err)
	}
	return v, nil
}

func (r *voucherRepository) List(ctx context.Context, filter VoucherFilter) ([]*entity.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE deleted_at IS NULL`
	var args []any

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.OrganizationID != nil {
		args = append(args, *filter.OrganizationID)
		query += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY purchase_date DESC"

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list vouchers", zap.Error(err))
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*entity.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}

	return vouchers, nil
}

func (r *voucherRepository) Update(ctx context.Context, v *entity.Voucher) error {
	query := `
		UPDATE vouchers
		SET client_id = $2, activated_at = $3, used_sessions = $4, used_backup_sessions = $5,
			status = $6, payment_method = $7, payment_status = $8, payment_date = $9,
			updated_at = $10
		WHERE id = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query,
		v.ID,
		v.ClientID,
		v.ActivatedAt,
		v.UsedSessions,
		v.UsedBackupSessions,
		v.Status,
		v.PaymentMethod,
		v.PaymentStatus,
		v.PaymentDate,
		v.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update voucher",
			zap.Error(err),
			zap.String("voucher_id", v.ID.String()),
		)
		return fmt.Errorf("update voucher %s: %w", v.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *voucherRepository) CountPurchasedInYear(ctx context.Context, year int) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM vouchers
		WHERE EXTRACT(YEAR FROM purchase_date) = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	var count int64
	if err := q.QueryRow(ctx, query, year).Scan(&count); err != nil {
		r.log.Error("Failed to count vouchers for year",
			zap.Error(err),
			zap.Int("year", year),
		)
		return 0, fmt.Errorf("count vouchers for year %d: %w", year, err)
	}

	return count, nil
}

func (r *voucherRepository) ExpireOverdue(ctx context.Context) (int64, error) {
	query := `
		UPDATE vouchers
		SET status = 'expired', updated_at = NOW()
		WHERE status IN ('pending', 'active') AND valid_until < NOW() AND deleted_at IS NULL
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query)
	if err != nil {
		r.log.Error("Failed to expire overdue vouchers", zap.Error(err))
		return 0, fmt.Errorf("expire overdue vouchers: %w", err)
	}

	return tag.RowsAffected(), nil
}
