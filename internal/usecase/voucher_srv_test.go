package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
)

func activeVoucherType(orgID uuid.UUID) *entity.VoucherType {
	now := time.Now()
	return &entity.VoucherType{
		Base:                   entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OrganizationID:         orgID,
		Name:                   "10er Karte",
		SessionName:            "individual",
		TotalSessions:          10,
		BackupSessions:         2,
		SessionDurationMinutes: 50,
		MaxClientsPerSession:   1,
		Frequency:              entity.FrequencyWeekly,
		Price:                  650,
		ValidityDays:           180,
		BookingRules: entity.BookingRules{
			Monday: entity.BookingRule{Enabled: true, StartTime: "09:00", EndTime: "17:00"},
		},
		IsActive: true,
	}
}

func TestPurchaseGeneratesDistinctCodes(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	vt := activeVoucherType(orgID)
	tr.voucherTypes.types[vt.ID] = vt

	resp, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if len(resp.Codes) != 10 {
		t.Errorf("regular codes = %d, want 10", len(resp.Codes))
	}
	if len(resp.BackupCodes) != 2 {
		t.Errorf("backup codes = %d, want 2", len(resp.BackupCodes))
	}

	seen := make(map[string]bool)
	for _, c := range append(resp.Codes, resp.BackupCodes...) {
		if !strings.HasPrefix(c.Code, "VK-") || len(c.Code) != 11 {
			t.Errorf("malformed code %q", c.Code)
		}
		if seen[c.Code] {
			t.Errorf("duplicate code %q", c.Code)
		}
		seen[c.Code] = true
	}

	if resp.Voucher.InvoiceNumber != utils.FormatInvoiceNumber(time.Now().Year(), 1) {
		t.Errorf("invoice = %q, want first sequence of the year", resp.Voucher.InvoiceNumber)
	}
	if resp.Voucher.Status != entity.VoucherStatusPending {
		t.Errorf("status = %s, want pending without a client", resp.Voucher.Status)
	}
	if len(tr.audits.logs) != 1 {
		t.Errorf("audit rows = %d, want 1", len(tr.audits.logs))
	}
}

func TestPurchaseInvoiceSequenceIncrements(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	vt := activeVoucherType(orgID)
	tr.voucherTypes.types[vt.ID] = vt

	req := &request.PurchaseVoucherRequest{VoucherTypeID: vt.ID.String(), PaymentMethod: "transfer"}
	first, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, req)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	second, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, req)
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	year := time.Now().Year()
	if first.Voucher.InvoiceNumber != utils.FormatInvoiceNumber(year, 1) ||
		second.Voucher.InvoiceNumber != utils.FormatInvoiceNumber(year, 2) {
		t.Errorf("invoices = %q, %q", first.Voucher.InvoiceNumber, second.Voucher.InvoiceNumber)
	}
}

func TestPurchaseWithTherapistSchedulesSeries(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	vt := activeVoucherType(orgID)
	tr.voucherTypes.types[vt.ID] = vt

	clientID := uuid.New().String()
	therapistID := uuid.New().String()
	resp, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		ClientID:      &clientID,
		TherapistID:   &therapistID,
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if resp.Voucher.Status != entity.VoucherStatusActive {
		t.Errorf("status = %s, want active when bound to a client", resp.Voucher.Status)
	}
	if len(tr.sessions.sessions) != vt.TotalSessions {
		t.Errorf("sessions created = %d, want %d", len(tr.sessions.sessions), vt.TotalSessions)
	}
	for _, s := range tr.sessions.sessions {
		if s.Status != entity.SessionStatusScheduled {
			t.Errorf("session status = %s, want scheduled", s.Status)
		}
	}
}

func TestPurchaseRejectsTherapistWithoutClient(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	vt := activeVoucherType(orgID)
	tr.voucherTypes.types[vt.ID] = vt

	therapistID := uuid.New().String()
	_, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		TherapistID:   &therapistID,
		PaymentMethod: "cash",
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("kind = %s, want validation", apperr.KindOf(err))
	}
}

func TestPurchaseRejectsInactiveType(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	vt := activeVoucherType(orgID)
	vt.IsActive = false
	tr.voucherTypes.types[vt.ID] = vt

	_, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		PaymentMethod: "cash",
	})
	if apperr.KindOf(err) != apperr.KindInactiveType {
		t.Errorf("kind = %s, want inactive_type", apperr.KindOf(err))
	}
}

func TestPurchaseHidesForeignVoucherTypes(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	// Type belongs to a different organization than the front-desk actor's.
	vt := activeVoucherType(uuid.New())
	tr.voucherTypes.types[vt.ID] = vt

	actorOrg := uuid.New()
	_, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &actorOrg, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		PaymentMethod: "cash",
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %s, want not_found", apperr.KindOf(err))
	}
}

func purchaseVoucher(t *testing.T, tr *testRepo, svc VoucherService, orgID uuid.UUID) uuid.UUID {
	t.Helper()
	vt := activeVoucherType(orgID)
	tr.voucherTypes.types[vt.ID] = vt
	resp, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgID, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	return uuid.MustParse(resp.Voucher.ID)
}

func TestActivateIsIdempotentForSameClient(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgID := uuid.New()
	voucherID := purchaseVoucher(t, tr, svc, orgID)
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)
	code := codes[0].Code

	clientID := uuid.New()
	first, err := svc.Activate(context.Background(), clientID, code)
	if err != nil {
		t.Fatalf("first activate: %v", err)
	}
	if first.Status != entity.VoucherStatusActive {
		t.Errorf("status = %s, want active", first.Status)
	}

	second, err := svc.Activate(context.Background(), clientID, code)
	if err != nil {
		t.Fatalf("repeat activate: %v", err)
	}
	if second.ActivatedAt == nil || first.ActivatedAt == nil || !second.ActivatedAt.Equal(*first.ActivatedAt) {
		t.Error("repeat activation must not move the activation timestamp")
	}
}

func TestActivateRejectsSecondClient(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)
	code := codes[0].Code

	if _, err := svc.Activate(context.Background(), uuid.New(), code); err != nil {
		t.Fatalf("first activate: %v", err)
	}
	_, err := svc.Activate(context.Background(), uuid.New(), code)
	if apperr.KindOf(err) != apperr.KindAlreadyActivated {
		t.Errorf("kind = %s, want already_activated", apperr.KindOf(err))
	}
}

func TestConsumeRegularCodeWalksInsertionOrder(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)
	var firstRegular string
	for _, c := range codes {
		if !c.IsBackup {
			firstRegular = c.Code
			break
		}
	}

	consumed, err := svc.ConsumeRegularCode(context.Background(), voucherID)
	if err != nil {
		t.Fatalf("ConsumeRegularCode: %v", err)
	}
	if consumed.Code != firstRegular {
		t.Errorf("consumed %q, want oldest regular code %q", consumed.Code, firstRegular)
	}
	if consumed.Status != entity.CodeStatusUsed {
		t.Errorf("code status = %s, want used", consumed.Status)
	}

	v, _ := tr.vouchers.FindByID(context.Background(), voucherID)
	if v.UsedSessions != 1 || v.UsedBackupSessions != 0 {
		t.Errorf("counters = %d/%d, want 1/0", v.UsedSessions, v.UsedBackupSessions)
	}
}

func TestConsumeExhaustionLeavesCountersAlone(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())

	// Use up both backup sessions, then one more.
	for i := 0; i < 2; i++ {
		if _, err := svc.ConsumeBackupCode(context.Background(), voucherID); err != nil {
			t.Fatalf("backup consume %d: %v", i, err)
		}
	}
	_, err := svc.ConsumeBackupCode(context.Background(), voucherID)
	if apperr.KindOf(err) != apperr.KindNoBackupAvailable {
		t.Fatalf("kind = %s, want no_backup_available", apperr.KindOf(err))
	}

	v, _ := tr.vouchers.FindByID(context.Background(), voucherID)
	if v.UsedBackupSessions != 2 {
		t.Errorf("used backup sessions = %d, want unchanged 2", v.UsedBackupSessions)
	}
	if v.UsedSessions != 0 {
		t.Errorf("used sessions = %d, want 0", v.UsedSessions)
	}
}

func TestConsumeAllRegularCompletesVoucher(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())

	for i := 0; i < 10; i++ {
		if _, err := svc.ConsumeRegularCode(context.Background(), voucherID); err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
	}
	_, err := svc.ConsumeRegularCode(context.Background(), voucherID)
	if apperr.KindOf(err) != apperr.KindExhausted {
		t.Errorf("kind = %s, want exhausted", apperr.KindOf(err))
	}

	v, _ := tr.vouchers.FindByID(context.Background(), voucherID)
	if v.Status != entity.VoucherStatusCompleted {
		t.Errorf("status = %s, want completed", v.Status)
	}
}

func TestGetStatusCollapsesForeignVoucherToNotFound(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)
	owner := uuid.New()
	if _, err := svc.Activate(context.Background(), owner, codes[0].Code); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := svc.GetStatus(context.Background(), voucherID, owner, entity.RoleClient); err != nil {
		t.Errorf("owner status: %v", err)
	}
	_, err := svc.GetStatus(context.Background(), voucherID, uuid.New(), entity.RoleClient)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("kind = %s, want not_found for foreign client", apperr.KindOf(err))
	}
}

func TestClientPurchaseBindsSelf(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	vt := activeVoucherType(uuid.New())
	tr.voucherTypes.types[vt.ID] = vt

	clientID := uuid.New()
	resp, err := svc.Purchase(context.Background(), clientID, entity.RoleClient, nil, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	if resp.Voucher.ClientID == nil || *resp.Voucher.ClientID != clientID.String() {
		t.Errorf("client = %v, want the purchasing client", resp.Voucher.ClientID)
	}
	if resp.Voucher.Status != entity.VoucherStatusActive {
		t.Errorf("status = %s, want active for a self-bound purchase", resp.Voucher.Status)
	}
}

func TestClientPurchaseRejectsOtherClient(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	vt := activeVoucherType(uuid.New())
	tr.voucherTypes.types[vt.ID] = vt

	other := uuid.New().String()
	_, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleClient, nil, &request.PurchaseVoucherRequest{
		VoucherTypeID: vt.ID.String(),
		ClientID:      &other,
		PaymentMethod: "card",
	})
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("kind = %s, want forbidden", apperr.KindOf(err))
	}
}

func TestInvoiceSequenceSpansOrganizations(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	orgA, orgB := uuid.New(), uuid.New()
	vtA, vtB := activeVoucherType(orgA), activeVoucherType(orgB)
	tr.voucherTypes.types[vtA.ID] = vtA
	tr.voucherTypes.types[vtB.ID] = vtB

	first, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgA, &request.PurchaseVoucherRequest{
		VoucherTypeID: vtA.ID.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	second, err := svc.Purchase(context.Background(), uuid.New(), entity.RoleStaff, &orgB, &request.PurchaseVoucherRequest{
		VoucherTypeID: vtB.ID.String(),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}

	year := time.Now().Year()
	if first.Voucher.InvoiceNumber != utils.FormatInvoiceNumber(year, 1) ||
		second.Voucher.InvoiceNumber != utils.FormatInvoiceNumber(year, 2) {
		t.Errorf("invoices = %q, %q, want one sequence across organizations",
			first.Voucher.InvoiceNumber, second.Voucher.InvoiceNumber)
	}
}

func TestActivateRejectsSpentCode(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)

	clientID := uuid.New()
	if _, err := svc.Activate(context.Background(), clientID, codes[0].Code); err != nil {
		t.Fatalf("activate: %v", err)
	}
	spent, err := svc.ConsumeRegularCode(context.Background(), voucherID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	_, err = svc.Activate(context.Background(), clientID, spent.Code)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("kind = %s, want invalid_state for a used code", apperr.KindOf(err))
	}
}

func TestCreateReservationSpendsCode(t *testing.T) {
	tr := newTestRepo()
	svc := NewVoucherService(tr.repo, testLogger())

	voucherID := purchaseVoucher(t, tr, svc, uuid.New())
	codes, _ := tr.codes.ListByVoucher(context.Background(), voucherID)
	code := codes[0].Code

	clientID := uuid.New()
	if _, err := svc.Activate(context.Background(), clientID, code); err != nil {
		t.Fatalf("activate: %v", err)
	}

	therapistID := uuid.New()
	tr.users.users[therapistID] = &entity.User{
		Base: entity.Base{ID: therapistID},
		Role: entity.RoleTherapist,
	}

	req := &request.CreateReservationRequest{
		Code:        code,
		TherapistID: therapistID.String(),
		StartDate:   time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		StartTime:   "10:00",
		SessionType: "individual",
	}
	resp, err := svc.CreateReservation(context.Background(), clientID, req)
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if len(resp.Sessions) != 10 {
		t.Errorf("sessions = %d, want 10", len(resp.Sessions))
	}

	for _, c := range tr.codes.codes {
		if c.Code == code && c.Status != entity.CodeStatusUsed {
			t.Errorf("code status = %s, want used after booking", c.Status)
		}
	}

	// The same code must not book a second series.
	_, err = svc.CreateReservation(context.Background(), clientID, req)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Errorf("kind = %s, want invalid_state on reuse", apperr.KindOf(err))
	}
	if len(tr.sessions.sessions) != 10 {
		t.Errorf("sessions after reuse = %d, want still 10", len(tr.sessions.sessions))
	}
	if len(tr.reservations.reservations) != 1 {
		t.Errorf("reservations = %d, want 1", len(tr.reservations.reservations))
	}
}
