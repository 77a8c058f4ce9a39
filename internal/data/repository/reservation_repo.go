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

type ReservationRepository interface {
	Create(ctx context.Context, res *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	ListByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, voucher_code_id, voucher_id, therapist_id, client_id, start_date,
	created_at, updated_at, deleted_at`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.VoucherCodeID,
		&res.VoucherID,
		&res.TherapistID,
		&res.ClientID,
		&res.StartDate,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, voucher_code_id, voucher_id, therapist_id, client_id,
			start_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		res.ID,
		res.VoucherCodeID,
		res.VoucherID,
		res.TherapistID,
		res.ClientID,
		res.StartDate,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", res.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 AND deleted_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	res, err := scanReservation(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return res, nil
}

func (r *reservationRepository) ListByVoucher(ctx context.Context, voucherID uuid.UUID) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE voucher_id = $1 AND deleted_at IS NULL ORDER BY start_date`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, voucherID)
	if err != nil {
		r.log.Error("Failed to list reservations",
			zap.Error(err),
			zap.String("voucher_id", voucherID.String()),
		)
		return nil, fmt.Errorf("list reservations for voucher %s: %w", voucherID.String(), err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, nil
}
