package entity

import (
	"testing"
	"time"
)

func TestCustomWeekdays(t *testing.T) {
	vt := VoucherType{CustomDays: []int{1, 3, 7, 0, 9}}
	got := vt.CustomWeekdays()
	want := []time.Weekday{time.Monday, time.Wednesday, time.Sunday}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBookingRulesRuleFor(t *testing.T) {
	br := BookingRules{
		Tuesday: BookingRule{Enabled: true, StartTime: "08:00"},
		Sunday:  BookingRule{Enabled: true, StartTime: "12:00"},
	}

	if r := br.RuleFor(time.Tuesday); !r.Enabled || r.StartTime != "08:00" {
		t.Errorf("Tuesday rule = %+v", r)
	}
	if r := br.RuleFor(time.Sunday); !r.Enabled || r.StartTime != "12:00" {
		t.Errorf("Sunday rule = %+v", r)
	}
	if br.RuleFor(time.Monday).Enabled {
		t.Error("Monday should be disabled")
	}
	if !br.HasEnabledDay() {
		t.Error("HasEnabledDay = false")
	}
	if (BookingRules{}).HasEnabledDay() {
		t.Error("empty rules report an enabled day")
	}
}
