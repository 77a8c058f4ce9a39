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

type RescheduleRepository interface {
	Create(ctx context.Context, req *entity.RescheduleRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error)
	// FindByIDForUpdate locks the request row so concurrent responses to the
	// same request serialize. Callers must be inside WithinTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error)
	FindPendingBySession(ctx context.Context, sessionID uuid.UUID) (*entity.RescheduleRequest, error)
	ListPendingByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*entity.RescheduleRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*entity.RescheduleRequest, error)
	Update(ctx context.Context, req *entity.RescheduleRequest) error
}

type rescheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRescheduleRepository(db database.PgxIface, log *zap.Logger) RescheduleRepository {
	return &rescheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "reschedule")),
	}
}

const rescheduleColumns = `id, session_id, requested_by, current_date_snapshot, current_time_snapshot,
	preferred_date, preferred_time, alternative_date, alternative_time, reason, status,
	responded_by, response_message, new_session_id, responded_at, created_at, updated_at, deleted_at`

func scanReschedule(row pgx.Row) (*entity.RescheduleRequest, error) {
	var req entity.RescheduleRequest
	err := row.Scan(
		&req.ID,
		&req.SessionID,
		&req.RequestedBy,
		&req.CurrentDate,
		&req.CurrentTime,
		&req.PreferredDate,
		&req.PreferredTime,
		&req.AlternativeDate,
		&req.AlternativeTime,
		&req.Reason,
		&req.Status,
		&req.RespondedBy,
		&req.ResponseMessage,
		&req.NewSessionID,
		&req.RespondedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *rescheduleRepository) Create(ctx context.Context, req *entity.RescheduleRequest) error {
	query := `
		INSERT INTO reschedule_requests (id, session_id, requested_by, current_date_snapshot,
			current_time_snapshot, preferred_date, preferred_time, alternative_date,
			alternative_time, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		req.ID,
		req.SessionID,
		req.RequestedBy,
		req.CurrentDate,
		req.CurrentTime,
		req.PreferredDate,
		req.PreferredTime,
		req.AlternativeDate,
		req.AlternativeTime,
		req.Reason,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reschedule request",
			zap.Error(err),
			zap.String("request_id", req.ID.String()),
			zap.String("session_id", req.SessionID.String()),
		)
		return fmt.Errorf("create reschedule request %s: %w", req.ID.String(), err)
	}

	return nil
}

func (r *rescheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

func (r *rescheduleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	query := `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *rescheduleRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.RescheduleRequest, error) {
	q := database.QuerierFrom(ctx, r.db)
	req, err := scanReschedule(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reschedule request by ID",
			zap.Error(err),
			zap.String("request_id", id.String()),
		)
		return nil, fmt.Errorf("find reschedule request by ID %s: %w", id.String(), err)
	}
	return req, nil
}

func (r *rescheduleRepository) FindPendingBySession(ctx context.Context, sessionID uuid.UUID) (*entity.RescheduleRequest, error) {
	query := `
		SELECT ` + rescheduleColumns + `
		FROM reschedule_requests
		WHERE session_id = $1 AND status = 'pending' AND deleted_at IS NULL
		LIMIT 1
	`

	q := database.QuerierFrom(ctx, r.db)
	req, err := scanReschedule(q.QueryRow(ctx, query, sessionID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pending reschedule request",
			zap.Error(err),
			zap.String("session_id", sessionID.String()),
		)
		return nil, fmt.Errorf("find pending reschedule request for session %s: %w", sessionID.String(), err)
	}

	return req, nil
}

func (r *rescheduleRepository) ListPendingByTherapist(ctx context.Context, therapistID uuid.UUID) ([]*entity.RescheduleRequest, error) {
	query := `
		SELECT ` + prefixColumns("rr", rescheduleColumns) + `
		FROM reschedule_requests rr
		JOIN therapy_sessions ts ON rr.session_id = ts.id
		WHERE ts.therapist_id = $1 AND rr.status = 'pending' AND rr.deleted_at IS NULL
		ORDER BY rr.created_at
	`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, therapistID)
	if err != nil {
		r.log.Error("Failed to list pending reschedule requests",
			zap.Error(err),
			zap.String("therapist_id", therapistID.String()),
		)
		return nil, fmt.Errorf("list pending reschedule requests for therapist %s: %w", therapistID.String(), err)
	}
	defer rows.Close()

	return collectReschedules(rows)
}

func (r *rescheduleRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*entity.RescheduleRequest, error) {
	query := `
		SELECT ` + rescheduleColumns + `
		FROM reschedule_requests
		WHERE requested_by = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, requesterID)
	if err != nil {
		r.log.Error("Failed to list reschedule requests",
			zap.Error(err),
			zap.String("requester_id", requesterID.String()),
		)
		return nil, fmt.Errorf("list reschedule requests for requester %s: %w", requesterID.String(), err)
	}
	defer rows.Close()

	return collectReschedules(rows)
}

func (r *rescheduleRepository) Update(ctx context.Context, req *entity.RescheduleRequest) error {
	query := `
		UPDATE reschedule_requests
		SET status = $2, responded_by = $3, response_message = $4, new_session_id = $5,
			responded_at = $6, updated_at = $7
		WHERE id = $1
	`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query,
		req.ID,
		req.Status,
		req.RespondedBy,
		req.ResponseMessage,
		req.NewSessionID,
		req.RespondedAt,
		req.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update reschedule request",
			zap.Error(err),
			zap.String("request_id", req.ID.String()),
		)
		return fmt.Errorf("update reschedule request %s: %w", req.ID.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func collectReschedules(rows pgx.Rows) ([]*entity.RescheduleRequest, error) {
	var requests []*entity.RescheduleRequest
	for rows.Next() {
		req, err := scanReschedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reschedule request row: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}
