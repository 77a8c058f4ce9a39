package entity

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyCustom   Frequency = "custom"
)

// BookingRule is the per-weekday availability window of a voucher type.
// Times use "HH:MM".
type BookingRule struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// BookingRules is stored as one JSONB column on voucher_types.
type BookingRules struct {
	Monday    BookingRule `json:"monday"`
	Tuesday   BookingRule `json:"tuesday"`
	Wednesday BookingRule `json:"wednesday"`
	Thursday  BookingRule `json:"thursday"`
	Friday    BookingRule `json:"friday"`
	Saturday  BookingRule `json:"saturday"`
	Sunday    BookingRule `json:"sunday"`
}

// RuleFor maps a weekday to its booking rule.
func (br BookingRules) RuleFor(day time.Weekday) BookingRule {
	switch day {
	case time.Monday:
		return br.Monday
	case time.Tuesday:
		return br.Tuesday
	case time.Wednesday:
		return br.Wednesday
	case time.Thursday:
		return br.Thursday
	case time.Friday:
		return br.Friday
	case time.Saturday:
		return br.Saturday
	default:
		return br.Sunday
	}
}

// HasEnabledDay reports whether at least one weekday is bookable.
func (br BookingRules) HasEnabledDay() bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if br.RuleFor(d).Enabled {
			return true
		}
	}
	return false
}

// VoucherType is the sales template a voucher is purchased from. Sessions
// generated from it are materialized snapshots: editing the template later
// never touches already-scheduled sessions.
type VoucherType struct {
	Base
	OrganizationID         uuid.UUID    `db:"organization_id"`
	Name                   string       `db:"name"`
	SessionName            string       `db:"session_name"`
	Description            *string      `db:"description"`
	TotalSessions          int          `db:"total_sessions"`
	BackupSessions         int          `db:"backup_sessions"`
	SessionDurationMinutes int          `db:"session_duration_minutes"`
	MaxClientsPerSession   int          `db:"max_clients_per_session"`
	Frequency              Frequency    `db:"frequency"`
	CustomDays             []int        `db:"custom_days"` // 1=Monday .. 7=Sunday
	Price                  float64      `db:"price"`
	ValidityDays           int          `db:"validity_days"`
	BookingRules           BookingRules `db:"booking_rules"`
	IsActive               bool         `db:"is_active"`
	DeactivatedAt          *time.Time   `db:"deactivated_at"`
}

// CustomWeekdays converts the 1..7 custom day numbers to time.Weekday values.
func (vt *VoucherType) CustomWeekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(vt.CustomDays))
	for _, d := range vt.CustomDays {
		if d < 1 || d > 7 {
			continue
		}
		// 7 is Sunday, which time.Weekday numbers as 0
		days = append(days, time.Weekday(d%7))
	}
	return days
}
