package repository

import (
	"context"
	"fmt"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthSessionRepository interface {
	Create(ctx context.Context, session *entity.AuthSession) error
	FindValidSession(ctx context.Context, token string) (*entity.AuthSession, error)
	Revoke(ctx context.Context, token string) error
}

type authSessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAuthSessionRepository(db database.PgxIface, log *zap.Logger) AuthSessionRepository {
	return &authSessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "auth_session")),
	}
}

func (r *authSessionRepository) Create(ctx context.Context, session *entity.AuthSession) error {
	query := `
		INSERT INTO auth_sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create auth session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("create auth session: %w", err)
	}

	return nil
}

func (r *authSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.AuthSession, error) {
	query := `
		SELECT id, user_id, token, user_agent, ip_address, expires_at, revoked_at, created_at
		FROM auth_sessions
		WHERE token = $1 AND expires_at > NOW() AND revoked_at IS NULL
	`

	q := database.QuerierFrom(ctx, r.db)

	var session entity.AuthSession
	err := q.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("find valid session: %w", err)
	}

	return &session, nil
}

func (r *authSessionRepository) Revoke(ctx context.Context, token string) error {
	query := `UPDATE auth_sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	if _, err := q.Exec(ctx, query, token); err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}
