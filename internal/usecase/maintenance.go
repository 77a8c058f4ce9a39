package usecase

import (
	"context"
	"fmt"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"
	"therapy-vouchers/pkg/utils"

	"go.uber.org/zap"
)

// preparationReminderWindowDays is how far ahead the reminder sweep looks for
// sessions that still have no preparation message.
const preparationReminderWindowDays = 3

// MaintenanceService runs the periodic housekeeping sweeps: expiring overdue
// vouchers and reminding therapists about unprepared upcoming sessions.
type MaintenanceService interface {
	Run(ctx context.Context, interval time.Duration)
	ExpireOverdueVouchers(ctx context.Context) (int64, error)
	RemindUnpreparedSessions(ctx context.Context) (int, error)
}

type maintenanceService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewMaintenanceService(repo *repository.Repository, log *zap.Logger) MaintenanceService {
	return &maintenanceService{
		repo: repo,
		log:  log.With(zap.String("service", "maintenance")),
	}
}

// Run executes both sweeps immediately and then on every tick until the
// context is cancelled.
func (s *maintenanceService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *maintenanceService) sweep(ctx context.Context) {
	if expired, err := s.ExpireOverdueVouchers(ctx); err != nil {
		s.log.Error("Voucher expiry sweep failed", zap.Error(err))
	} else if expired > 0 {
		s.log.Info("Vouchers expired", zap.Int64("count", expired))
	}

	if reminded, err := s.RemindUnpreparedSessions(ctx); err != nil {
		s.log.Error("Preparation reminder sweep failed", zap.Error(err))
	} else if reminded > 0 {
		s.log.Info("Preparation reminders sent", zap.Int("count", reminded))
	}
}

// ExpireOverdueVouchers flips every pending or active voucher whose validity
// window has passed to expired.
func (s *maintenanceService) ExpireOverdueVouchers(ctx context.Context) (int64, error) {
	return s.repo.Voucher.ExpireOverdue(ctx)
}

// RemindUnpreparedSessions notifies therapists about sessions coming up in
// the next few days that still carry no preparation message. At most one
// reminder is produced per session per sweep window.
func (s *maintenanceService) RemindUnpreparedSessions(ctx context.Context) (int, error) {
	now := time.Now()
	from := truncateToDay(now)
	to := from.AddDate(0, 0, preparationReminderWindowDays)

	sessions, err := s.repo.Session.ListUpcomingWithoutPreparation(ctx, from, to)
	if err != nil {
		return 0, err
	}

	reminded := 0
	for _, session := range sessions {
		err := s.repo.Notification.Create(ctx, &entity.Notification{
			BaseSimple:  entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: now},
			VoucherID:   &session.VoucherID,
			RecipientID: session.TherapistID,
			Type:        entity.NotificationPreparationRequired,
			Title:       "Session preparation outstanding",
			Message: fmt.Sprintf("The session on %s at %s has no preparation message yet.",
				session.ScheduledDate.Format("2006-01-02"), session.ScheduledTime),
		})
		if err != nil {
			return reminded, err
		}
		reminded++
	}
	return reminded, nil
}
