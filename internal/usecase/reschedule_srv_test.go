package usecase

import (
	"context"
	"testing"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/pkg/apperr"

	"github.com/google/uuid"
)

type rescheduleFixture struct {
	*sessionFixture
	svc RescheduleService
}

func newRescheduleFixture(t *testing.T, status entity.SessionStatus) *rescheduleFixture {
	t.Helper()
	sf := newSessionFixture(t, time.Now().AddDate(0, 0, 5), status)
	return &rescheduleFixture{
		sessionFixture: sf,
		svc:            NewRescheduleService(sf.tr.repo, testLogger()),
	}
}

func rescheduleRequestFor(sessionID uuid.UUID) *request.CreateRescheduleRequest {
	return &request.CreateRescheduleRequest{
		SessionID:     sessionID.String(),
		PreferredDate: time.Now().AddDate(0, 0, 12).Format("2006-01-02"),
		PreferredTime: "15:00",
		Reason:        "work conflict",
	}
}

func TestRequestReschedule(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	resp, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.Status != entity.RescheduleStatusPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if resp.CurrentDate != f.session.ScheduledDate.Format("2006-01-02") {
		t.Errorf("current date snapshot = %s, want %s",
			resp.CurrentDate, f.session.ScheduledDate.Format("2006-01-02"))
	}
}

func TestRequestRejectsSecondPendingForSameSession(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	if _, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID)); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("kind = %s, want conflict", apperr.KindOf(err))
	}
}

func TestRequestRejectsTerminalSessions(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusCompleted)

	_, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("kind = %s, want invalid_state", apperr.KindOf(err))
	}
}

func TestRequestCollapsesForeignSessionToNotFound(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	_, err := f.svc.Request(context.Background(), uuid.New(), rescheduleRequestFor(f.session.ID))
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %s, want not_found", apperr.KindOf(err))
	}
}

func TestRespondAcceptMovesSession(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusConfirmed)

	created, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	requestID := uuid.MustParse(created.ID)

	msg := "Works for me."
	resolved, err := f.svc.Respond(context.Background(), f.therapistID, requestID, &request.RespondRescheduleRequest{
		Accept:          true,
		ResponseMessage: &msg,
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if resolved.Status != entity.RescheduleStatusAccepted {
		t.Fatalf("status = %s, want accepted", resolved.Status)
	}
	if resolved.NewSessionID == nil {
		t.Fatal("accepted request has no new session reference")
	}

	replacement, _ := f.tr.sessions.FindByID(context.Background(), uuid.MustParse(*resolved.NewSessionID))
	if replacement == nil {
		t.Fatal("replacement session not created")
	}
	if replacement.ScheduledDate.Format("2006-01-02") != created.PreferredDate {
		t.Errorf("replacement date = %s, want preferred %s",
			replacement.ScheduledDate.Format("2006-01-02"), created.PreferredDate)
	}
	if replacement.ScheduledTime != "15:00" {
		t.Errorf("replacement time = %s, want 15:00", replacement.ScheduledTime)
	}
	if replacement.DurationMinutes != f.session.DurationMinutes {
		t.Errorf("replacement duration = %d, want %d", replacement.DurationMinutes, f.session.DurationMinutes)
	}
	if replacement.OriginalSessionID == nil || *replacement.OriginalSessionID != f.session.ID {
		t.Error("replacement does not reference the original session")
	}

	original, _ := f.tr.sessions.FindByID(context.Background(), f.session.ID)
	if original.Status != entity.SessionStatusRescheduled {
		t.Errorf("original status = %s, want rescheduled", original.Status)
	}
	if original.ActualDate == nil || original.ActualDate.Format("2006-01-02") != created.PreferredDate {
		t.Error("original session missing actual date")
	}

	if len(f.tr.notifications.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(f.tr.notifications.notifications))
	}
	n := f.tr.notifications.notifications[0]
	if n.Type != entity.NotificationRescheduleApproved || n.RecipientID != f.clientID {
		t.Errorf("notification = %+v", n)
	}
}

func TestRespondReject(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	created, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	requestID := uuid.MustParse(created.ID)

	resolved, err := f.svc.Respond(context.Background(), f.therapistID, requestID, &request.RespondRescheduleRequest{})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resolved.Status != entity.RescheduleStatusRejected {
		t.Errorf("status = %s, want rejected", resolved.Status)
	}

	// The session is untouched.
	original, _ := f.tr.sessions.FindByID(context.Background(), f.session.ID)
	if original.Status != entity.SessionStatusScheduled {
		t.Errorf("original status = %s, want scheduled", original.Status)
	}

	if len(f.tr.notifications.notifications) != 1 ||
		f.tr.notifications.notifications[0].Type != entity.NotificationRescheduleRejected {
		t.Error("rejection notification missing")
	}
}

func TestRespondTwiceConflicts(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	created, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	requestID := uuid.MustParse(created.ID)

	if _, err := f.svc.Respond(context.Background(), f.therapistID, requestID, &request.RespondRescheduleRequest{}); err != nil {
		t.Fatalf("first respond: %v", err)
	}
	_, err = f.svc.Respond(context.Background(), f.therapistID, requestID, &request.RespondRescheduleRequest{Accept: true})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("kind = %s, want conflict", apperr.KindOf(err))
	}
}

func TestRespondRejectsForeignTherapist(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	created, err := f.svc.Request(context.Background(), f.clientID, rescheduleRequestFor(f.session.ID))
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	requestID := uuid.MustParse(created.ID)

	_, err = f.svc.Respond(context.Background(), uuid.New(), requestID, &request.RespondRescheduleRequest{Accept: true})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %s, want not_found", apperr.KindOf(err))
	}
}

func TestRespondAcceptWithAlternative(t *testing.T) {
	f := newRescheduleFixture(t, entity.SessionStatusScheduled)

	altDate := time.Now().AddDate(0, 0, 20).Format("2006-01-02")
	altTime := "11:30"
	req := rescheduleRequestFor(f.session.ID)
	req.AlternativeDate = &altDate
	req.AlternativeTime = &altTime

	created, err := f.svc.Request(context.Background(), f.clientID, req)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	requestID := uuid.MustParse(created.ID)

	resolved, err := f.svc.Respond(context.Background(), f.therapistID, requestID, &request.RespondRescheduleRequest{
		Accept:         true,
		UseAlternative: true,
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	replacement, _ := f.tr.sessions.FindByID(context.Background(), uuid.MustParse(*resolved.NewSessionID))
	if replacement.ScheduledDate.Format("2006-01-02") != altDate || replacement.ScheduledTime != altTime {
		t.Errorf("replacement at %s %s, want alternative %s %s",
			replacement.ScheduledDate.Format("2006-01-02"), replacement.ScheduledTime, altDate, altTime)
	}
}
