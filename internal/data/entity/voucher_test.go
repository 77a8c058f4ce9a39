package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRecomputeStatus(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	clientID := uuid.New()

	tests := []struct {
		name string
		v    Voucher
		want VoucherStatus
	}{
		{
			name: "unassigned voucher stays pending",
			v: Voucher{
				TotalSessions: 10,
				ValidUntil:    now.AddDate(0, 3, 0),
				Status:        VoucherStatusPending,
			},
			want: VoucherStatusPending,
		},
		{
			name: "assigned voucher is active",
			v: Voucher{
				ClientID:      &clientID,
				TotalSessions: 10,
				UsedSessions:  3,
				ValidUntil:    now.AddDate(0, 3, 0),
				Status:        VoucherStatusPending,
			},
			want: VoucherStatusActive,
		},
		{
			name: "all sessions used completes",
			v: Voucher{
				ClientID:      &clientID,
				TotalSessions: 10,
				UsedSessions:  10,
				ValidUntil:    now.AddDate(0, 3, 0),
				Status:        VoucherStatusActive,
			},
			want: VoucherStatusCompleted,
		},
		{
			name: "completed wins over expired",
			v: Voucher{
				ClientID:      &clientID,
				TotalSessions: 5,
				UsedSessions:  5,
				ValidUntil:    now.AddDate(0, -1, 0),
				Status:        VoucherStatusActive,
			},
			want: VoucherStatusCompleted,
		},
		{
			name: "past validity expires",
			v: Voucher{
				ClientID:      &clientID,
				TotalSessions: 10,
				UsedSessions:  2,
				ValidUntil:    now.AddDate(0, -1, 0),
				Status:        VoucherStatusActive,
			},
			want: VoucherStatusExpired,
		},
		{
			name: "cancelled is sticky",
			v: Voucher{
				ClientID:      &clientID,
				TotalSessions: 10,
				UsedSessions:  10,
				ValidUntil:    now.AddDate(0, 3, 0),
				Status:        VoucherStatusCancelled,
			},
			want: VoucherStatusCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.v.RecomputeStatus(now)
			if tt.v.Status != tt.want {
				t.Errorf("status = %s, want %s", tt.v.Status, tt.want)
			}
		})
	}
}

func TestRemainingCounters(t *testing.T) {
	v := Voucher{
		TotalSessions:      10,
		UsedSessions:       4,
		BackupSessions:     2,
		UsedBackupSessions: 1,
	}
	if v.SessionsRemaining() != 6 {
		t.Errorf("SessionsRemaining = %d, want 6", v.SessionsRemaining())
	}
	if v.BackupSessionsRemaining() != 1 {
		t.Errorf("BackupSessionsRemaining = %d, want 1", v.BackupSessionsRemaining())
	}
}
