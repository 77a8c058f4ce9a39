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

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

const notificationColumns = `id, voucher_id, recipient_id, type, title, message, read_at, created_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(
		&n.ID,
		&n.VoucherID,
		&n.RecipientID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, voucher_id, recipient_id, type, title, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	q := database.QuerierFrom(ctx, r.db)
	_, err := q.Exec(ctx, query,
		n.ID,
		n.VoucherID,
		n.RecipientID,
		n.Type,
		n.Title,
		n.Message,
		n.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("recipient_id", n.RecipientID.String()),
			zap.String("type", string(n.Type)),
		)
		return fmt.Errorf("create notification for recipient %s: %w", n.RecipientID.String(), err)
	}

	return nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC"

	q := database.QuerierFrom(ctx, r.db)
	rows, err := q.Query(ctx, query, recipientID)
	if err != nil {
		r.log.Error("Failed to list notifications",
			zap.Error(err),
			zap.String("recipient_id", recipientID.String()),
		)
		return nil, fmt.Errorf("list notifications for recipient %s: %w", recipientID.String(), err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	query := `UPDATE notifications SET read_at = NOW() WHERE id = $1 AND recipient_id = $2 AND read_at IS NULL`

	q := database.QuerierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, query, id, recipientID)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
