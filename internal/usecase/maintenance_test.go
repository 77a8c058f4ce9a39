package usecase

import (
	"context"
	"testing"
	"time"

	"therapy-vouchers/internal/data/entity"

	"github.com/google/uuid"
)

func TestExpireOverdueVouchers(t *testing.T) {
	tr := newTestRepo()
	svc := NewMaintenanceService(tr.repo, testLogger())

	now := time.Now()
	overdue := &entity.Voucher{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OrganizationID: uuid.New(),
		ValidUntil:     now.AddDate(0, 0, -1),
		TotalSessions:  10,
		Status:         entity.VoucherStatusActive,
	}
	current := &entity.Voucher{
		Base:           entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OrganizationID: uuid.New(),
		ValidUntil:     now.AddDate(0, 3, 0),
		TotalSessions:  10,
		Status:         entity.VoucherStatusActive,
	}
	for _, v := range []*entity.Voucher{overdue, current} {
		if err := tr.vouchers.Create(context.Background(), v); err != nil {
			t.Fatal(err)
		}
	}

	expired, err := svc.ExpireOverdueVouchers(context.Background())
	if err != nil {
		t.Fatalf("ExpireOverdueVouchers: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}

	v, _ := tr.vouchers.FindByID(context.Background(), overdue.ID)
	if v.Status != entity.VoucherStatusExpired {
		t.Errorf("overdue voucher status = %s, want expired", v.Status)
	}
	v, _ = tr.vouchers.FindByID(context.Background(), current.ID)
	if v.Status != entity.VoucherStatusActive {
		t.Errorf("current voucher status = %s, want active", v.Status)
	}
}

func TestRemindUnpreparedSessions(t *testing.T) {
	tr := newTestRepo()
	svc := NewMaintenanceService(tr.repo, testLogger())

	now := time.Now()
	therapistID := uuid.New()
	sentAt := now.Add(-time.Hour)
	sessions := []*entity.TherapySession{
		{
			Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			VoucherID:     uuid.New(),
			ClientID:      uuid.New(),
			TherapistID:   therapistID,
			ScheduledDate: now.AddDate(0, 0, 1),
			ScheduledTime: "10:00",
			Status:        entity.SessionStatusConfirmed,
		},
		{
			// already prepared, no reminder
			Base:              entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			VoucherID:         uuid.New(),
			ClientID:          uuid.New(),
			TherapistID:       therapistID,
			ScheduledDate:     now.AddDate(0, 0, 2),
			ScheduledTime:     "11:00",
			Status:            entity.SessionStatusScheduled,
			PreparationSentAt: &sentAt,
		},
		{
			// outside the reminder window
			Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			VoucherID:     uuid.New(),
			ClientID:      uuid.New(),
			TherapistID:   therapistID,
			ScheduledDate: now.AddDate(0, 1, 0),
			ScheduledTime: "12:00",
			Status:        entity.SessionStatusScheduled,
		},
	}
	for _, s := range sessions {
		if err := tr.sessions.Create(context.Background(), s); err != nil {
			t.Fatal(err)
		}
	}

	reminded, err := svc.RemindUnpreparedSessions(context.Background())
	if err != nil {
		t.Fatalf("RemindUnpreparedSessions: %v", err)
	}
	if reminded != 1 {
		t.Fatalf("reminded = %d, want 1", reminded)
	}

	n := tr.notifications.notifications[0]
	if n.RecipientID != therapistID {
		t.Error("reminder not addressed to the therapist")
	}
	if n.Type != entity.NotificationPreparationRequired {
		t.Errorf("notification type = %s", n.Type)
	}
}
