package entity

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	allNext := []SessionStatus{
		SessionStatusScheduled, SessionStatusConfirmed, SessionStatusCompleted,
		SessionStatusCancelled, SessionStatusRescheduled, SessionStatusNoShow,
	}

	allowed := map[SessionStatus]map[SessionStatus]bool{
		SessionStatusScheduled: {
			SessionStatusConfirmed:   true,
			SessionStatusCompleted:   true,
			SessionStatusCancelled:   true,
			SessionStatusRescheduled: true,
			SessionStatusNoShow:      true,
		},
		SessionStatusConfirmed: {
			SessionStatusCompleted:   true,
			SessionStatusCancelled:   true,
			SessionStatusRescheduled: true,
			SessionStatusNoShow:      true,
		},
		SessionStatusCompleted:   {},
		SessionStatusCancelled:   {},
		SessionStatusRescheduled: {},
		SessionStatusNoShow:      {},
	}

	for from, nexts := range allowed {
		s := TherapySession{Status: from}
		for _, next := range allNext {
			got := s.CanTransitionTo(next)
			if got != nexts[next] {
				t.Errorf("%s -> %s = %v, want %v", from, next, got, nexts[next])
			}
		}
	}
}

func TestIsUpcoming(t *testing.T) {
	today := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		s    TherapySession
		want bool
	}{
		{"scheduled tomorrow", TherapySession{Status: SessionStatusScheduled, ScheduledDate: today.AddDate(0, 0, 1)}, true},
		{"confirmed today", TherapySession{Status: SessionStatusConfirmed, ScheduledDate: today}, true},
		{"scheduled yesterday", TherapySession{Status: SessionStatusScheduled, ScheduledDate: today.AddDate(0, 0, -1)}, false},
		{"completed tomorrow", TherapySession{Status: SessionStatusCompleted, ScheduledDate: today.AddDate(0, 0, 1)}, false},
		{"cancelled today", TherapySession{Status: SessionStatusCancelled, ScheduledDate: today}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsUpcoming(today); got != tt.want {
				t.Errorf("IsUpcoming = %v, want %v", got, tt.want)
			}
		})
	}
}
