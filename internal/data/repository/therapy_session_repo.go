package repository

import (
	"context"
	"fmt"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionFilter struct {
	VoucherID   *uuid.UUID
	ClientID    *uuid.UUID
	TherapistID *uuid.UUID
	Status      *entity.SessionStatus
	FromDate    *time.Time
	ToDate      *time.Time
}

type TherapySessionRepository interface {
	Create(ctx context.Context, s *entity.TherapySession) error
	CreateBatch(ctx context.Context, sessions []*entity.TherapySession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TherapySession, error)
	// FindByIDForUpdate locks the session row for the duration of the
	// surrounding transaction. Callers must be inside WithinTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TherapySession, error)
	List(ctx context.Context, filter SessionFilter) ([]*entity.TherapySession, error)
	Update(ctx context.Context, s *entity.TherapySession) error
	CountByVoucherAndStatus(ctx context.Context, voucherID uuid.UUID, status entity.SessionStatus) (int64, error)
	ListUpcomingWithoutPreparation(ctx context.Context, from, to time.Time) ([]*entity.TherapySession, error)
}

type therapySessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTherapySessionRepository(db database.PgxIface, log *zap.Logger) TherapySessionRepository {
	return &therapySessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "therapy_session")),
	}
}

const sessionColumns = `id, reservation_id, voucher_id, client_id, therapist_id, organization_id,
	scheduled_date, scheduled_time, actual_date, actual_time, duration_minutes, session_type,
	location, status, is_backup_session, original_session_id, therapist_notes,
	preparation_message, preparation_sent_at, created_at, updated_at, deleted_at`

func scanSession(row pgx.Row) (*entity.TherapySession, error) {
	var s entity.TherapySession
	err := row.Scan(
		&s.ID,
		&s.ReservationID,
		&s.VoucherID,
		&s.ClientID,
		&s.TherapistID,
		&s.OrganizationID,
		&s.ScheduledDate,
		&s.ScheduledTime,
		&s.ActualDate,
		&s.ActualTime,
		&s.DurationMinutes,
		&s.SessionType,
		&s.Location,
		&s.Status,
		&s.IsBackupSession,
		&s.OriginalSessionID,
		&s.TherapistNotes,
		&s.PreparationMessage,
		&s.PreparationSentAt,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const insertSessionQuery = `
	INSERT INTO therapy_sessions (id, reservation_id, voucher_id, client_id, therapist_id,
		organization_id, scheduled_date, scheduled_time, actual_date, actual_time,
		duration_minutes, session_type, location, status, is_backup_session,
		original_session_id, therapist_notes, preparation_message, preparation_sent_at,
		created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
`

func (r *therapySessionRepository) Create(ctx context.Context, s *entity.TherapySession) error {
	q := database.QuerierFrom(ctx, r.db)
	if err := r.insert(ctx, q, s); err != nil {
		r.log.Error("Failed to create therapy session",
			zap.Error(err),
			zap.String("session_id", s.ID.String()),
		)
		return err
	}
	return nil
}

func (r *therapySessionRepository) CreateBatch(ctx context.Context, sessions []*entity.TherapySession) error {
	q := database.QuerierFrom(ctx, r.db)
	for _, s := range sessions {
		if err := r.insert(ctx, q, s); err != nil {
			r.log.Error("Failed to create therapy session batch",
				zap.Error(err),
				zap.String("session_id", s.ID.String()),
			)
			return err
		}
	}
	return nil
}

func (r *therapySessionRepository) insert(ctx context.Context, q database.Querier, s *entity.TherapySession) error {
	_, err := q.Exec(ctx, insertSessionQuery,
		s.ID,
		s.ReservationID,
		s.VoucherID,
		s.ClientID,
		s.TherapistID,
		s.OrganizationID,
		s.ScheduledDate,
		s.ScheduledTime,
		s.ActualDate,
		s.ActualTime,
		s.DurationMinutes,
		s.SessionType,
		s.Location,
		s.Status,
		s.IsBackupSession,
		s.OriginalSessionID,
		s.TherapistNotes,
		s.PreparationMessage,
		s.PreparationSentAt,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create therapy session %s: %w", s.ID.String(), err)
	}
	return nil
}

func (r *therapySessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TherapySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM therapy_sessions WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

func (r *therapySessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TherapySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM therapy_sessions WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *therapySessionRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.TherapySession, error) {
	q := database.QuerierFrom(ctx, r.db)
	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find therapy session by ID",
			zap.Error(err),
			zap.String("session_id", id.String()),
		)
		return nil, fmt.Errorf("find therapy session by ID %s: %w", id.String(), err)
	}
	return s, nil
}

func (r *therapySessionRepository) List(ctx context.Context, filter SessionFilter) ([]*entity.TherapySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM therapy_sessions WHERE deleted_at IS NULL`
	var args []any

	if filter.VoucherID != nil {
		args = append(args, *filter.VoucherID)
		query += fmt.Sprintf(" AND voucher_id = $%d", len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.TherapistID != nil {
		args = append(args, *filter.TherapistID)
		query += fmt.Sprintf(" AND therapist_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += fmt.Sprintf(" AND scheduled_date >= $%d", len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += fmt.Sprintf(" AND scheduled_date <= $%d", len(args))
	}

	query += " ORDER BY scheduled_date, scheduled_time"

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list therapy sessions", zap.Error(err))
		return nil, fmt.Errorf("list therapy sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (r *therapySessionRepository) Update(ctx context.Context, s *entity.TherapySession) error {
	query := `
		UPDATE therapy_sessions
		SET scheduled_date = $2, scheduled_time = $3, actual_date = $4, actual_time = $5,
			status = $6, therapist_notes = $7, preparation_message = $8,
			preparation_sent_at = $9, updated_at = $10
		WHERE id = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query,
		s.ID,
		s.ScheduledDate,
		s.ScheduledTime,
		s.ActualDate,
		s.ActualTime,
		s.Status,
		s.TherapistNotes,
		s.PreparationMessage,
		s.PreparationSentAt,
		s.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update therapy session",
			zap.Error(err),
			zap.String("session_id", s.ID.String()),
		)
		return fmt.Errorf("update therapy session %s: %w", s.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *therapySessionRepository) CountByVoucherAndStatus(ctx context.Context, voucherID uuid.UUID, status entity.SessionStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM therapy_sessions WHERE voucher_id = $1 AND status = $2 AND deleted_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	var count int64
	if err := q.QueryRow(ctx, query, voucherID, status).Scan(&count); err != nil {
		r.log.Error("Failed to count therapy sessions",
			zap.Error(err),
			zap.String("voucher_id", voucherID.String()),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count therapy sessions for voucher %s: %w", voucherID.String(), err)
	}

	return count, nil
}

func (r *therapySessionRepository) ListUpcomingWithoutPreparation(ctx context.Context, from, to time.Time) ([]*entity.TherapySession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM therapy_sessions
		WHERE scheduled_date BETWEEN $1 AND $2
			AND status IN ('scheduled', 'confirmed')
			AND preparation_sent_at IS NULL
			AND deleted_at IS NULL
		ORDER BY scheduled_date, scheduled_time
	`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		r.log.Error("Failed to list sessions awaiting preparation", zap.Error(err))
		return nil, fmt.Errorf("list sessions awaiting preparation: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*entity.TherapySession, error) {
	var sessions []*entity.TherapySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan therapy session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
