package repository

import (
	"context"
	"strings"

	"therapy-vouchers/pkg/database"

	"go.uber.org/zap"
)

// prefixColumns qualifies every column in a comma-separated list with a
// table alias, for use in joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

type Repository struct {
	Tx           TxManager
	User         UserRepository
	Organization OrganizationRepository
	AuthSession  AuthSessionRepository
	VoucherType  VoucherTypeRepository
	Voucher      VoucherRepository
	VoucherCode  VoucherCodeRepository
	Reservation  ReservationRepository
	Session      TherapySessionRepository
	Reschedule   RescheduleRepository
	Notification NotificationRepository
	Audit        AuditRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Tx:           NewTxManager(db, log),
		User:         NewUserRepository(db, log),
		Organization: NewOrganizationRepository(db, log),
		AuthSession:  NewAuthSessionRepository(db, log),
		VoucherType:  NewVoucherTypeRepository(db, log),
		Voucher:      NewVoucherRepository(db, log),
		VoucherCode:  NewVoucherCodeRepository(db, log),
		Reservation:  NewReservationRepository(db, log),
		Session:      NewTherapySessionRepository(db, log),
		Reschedule:   NewRescheduleRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Audit:        NewAuditRepository(db, log),
	}
}

// TxManager runs a function inside one database transaction. The transaction
// is carried on the context, so repository calls made from fn join it
// automatically and either all commit or all roll back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &txManager{
		db:  db,
		log: log.With(zap.String("repository", "tx")),
	}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return err
	}

	txCtx := database.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return err
	}

	return nil
}
