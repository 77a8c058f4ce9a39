package usecase

import (
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/apperr"
)

// SessionSlot is one concrete occurrence produced by expanding a voucher
// type's recurrence plan.
type SessionSlot struct {
	Date            time.Time
	Time            string // "HH:MM"
	DurationMinutes int
}

// GenerateSessionSlots expands a voucher type into exactly TotalSessions
// ordered slots starting on or after startDate. It is a pure function:
// identical inputs always produce the identical sequence.
//
// The anchor weekday is fixed by the first qualifying day on or after
// startDate; later weeks never re-scan for other enabled days.
func GenerateSessionSlots(vt *entity.VoucherType, startDate time.Time, startTime string) ([]SessionSlot, error) {
	if vt.TotalSessions <= 0 {
		return nil, apperr.Validation("voucher type has no sessions to schedule")
	}

	startDate = truncateToDay(startDate)

	switch vt.Frequency {
	case entity.FrequencyDaily:
		return generateDaily(vt, startDate, startTime)
	case entity.FrequencyWeekly:
		return generateAnchored(vt, startDate, startTime, 7)
	case entity.FrequencyBiweekly:
		return generateAnchored(vt, startDate, startTime, 14)
	case entity.FrequencyCustom:
		return generateCustom(vt, startDate, startTime)
	default:
		return nil, apperr.Validation("unknown frequency %q", vt.Frequency)
	}
}

// generateDaily emits one slot per calendar day, skipping disabled weekdays.
func generateDaily(vt *entity.VoucherType, startDate time.Time, startTime string) ([]SessionSlot, error) {
	if !vt.BookingRules.HasEnabledDay() {
		return nil, apperr.Validation("voucher type has no bookable weekdays")
	}

	slots := make([]SessionSlot, 0, vt.TotalSessions)
	day := startDate
	for len(slots) < vt.TotalSessions {
		rule := vt.BookingRules.RuleFor(day.Weekday())
		if rule.Enabled {
			slots = append(slots, SessionSlot{
				Date:            day,
				Time:            slotTime(rule, startTime),
				DurationMinutes: vt.SessionDurationMinutes,
			})
		}
		day = day.AddDate(0, 0, 1)
	}

	return slots, nil
}

// generateAnchored finds the first enabled day on or after startDate and then
// repeats every stepDays from that anchor.
func generateAnchored(vt *entity.VoucherType, startDate time.Time, startTime string, stepDays int) ([]SessionSlot, error) {
	if !vt.BookingRules.HasEnabledDay() {
		return nil, apperr.Validation("voucher type has no bookable weekdays")
	}

	anchor := startDate
	for !vt.BookingRules.RuleFor(anchor.Weekday()).Enabled {
		anchor = anchor.AddDate(0, 0, 1)
	}

	rule := vt.BookingRules.RuleFor(anchor.Weekday())
	slots := make([]SessionSlot, 0, vt.TotalSessions)
	for i := 0; i < vt.TotalSessions; i++ {
		slots = append(slots, SessionSlot{
			Date:            anchor.AddDate(0, 0, i*stepDays),
			Time:            slotTime(rule, startTime),
			DurationMinutes: vt.SessionDurationMinutes,
		})
	}

	return slots, nil
}

// generateCustom anchors on the first weekday listed in CustomDays found on
// or after startDate, then repeats weekly on that single weekday. The series
// intentionally does not rotate through multiple custom days.
func generateCustom(vt *entity.VoucherType, startDate time.Time, startTime string) ([]SessionSlot, error) {
	custom := vt.CustomWeekdays()
	if len(custom) == 0 {
		return nil, apperr.Validation("custom frequency requires at least one custom day")
	}

	allowed := make(map[time.Weekday]bool, len(custom))
	for _, d := range custom {
		allowed[d] = true
	}

	anchor := startDate
	for !allowed[anchor.Weekday()] {
		anchor = anchor.AddDate(0, 0, 1)
	}

	rule := vt.BookingRules.RuleFor(anchor.Weekday())
	slots := make([]SessionSlot, 0, vt.TotalSessions)
	for i := 0; i < vt.TotalSessions; i++ {
		slots = append(slots, SessionSlot{
			Date:            anchor.AddDate(0, 0, i*7),
			Time:            slotTime(rule, startTime),
			DurationMinutes: vt.SessionDurationMinutes,
		})
	}

	return slots, nil
}

// slotTime prefers the caller's requested time, falling back to the weekday
// rule's start time.
func slotTime(rule entity.BookingRule, startTime string) string {
	if startTime != "" {
		return startTime
	}
	if rule.StartTime != "" {
		return rule.StartTime
	}
	return "09:00"
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
