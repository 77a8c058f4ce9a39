package usecase

import (
	"context"
	"testing"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
)

func seedAuditLog(tr *testRepo, orgID uuid.UUID, action, entityType string, entityID uuid.UUID, at time.Time) {
	tr.audits.logs = append(tr.audits.logs, &entity.AuditLog{
		BaseSimple:     entity.BaseSimple{ID: utils.GenerateUUID(), CreatedAt: at},
		OrganizationID: &orgID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       &entityID,
	})
}

func TestListAuditLogsPaginates(t *testing.T) {
	tr := newTestRepo()
	svc := NewOrganizationService(tr.repo, testLogger())

	orgID := utils.GenerateUUID()
	otherOrg := utils.GenerateUUID()
	now := time.Now()
	for i := 0; i < 5; i++ {
		seedAuditLog(tr, orgID, "voucher.purchase", "voucher", utils.GenerateUUID(), now.Add(time.Duration(i)*time.Minute))
	}
	seedAuditLog(tr, otherOrg, "voucher.purchase", "voucher", utils.GenerateUUID(), now)

	page, err := svc.ListAuditLogs(context.Background(), orgID, 1, 2)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Data))
	}
	if page.Pagination.Total != 5 {
		t.Errorf("total = %d, want 5", page.Pagination.Total)
	}
	if page.Pagination.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", page.Pagination.TotalPages)
	}

	last, err := svc.ListAuditLogs(context.Background(), orgID, 3, 2)
	if err != nil {
		t.Fatalf("ListAuditLogs last page: %v", err)
	}
	if len(last.Data) != 1 {
		t.Errorf("last page size = %d, want 1", len(last.Data))
	}
}

func TestListAuditLogsClampsBadParams(t *testing.T) {
	tr := newTestRepo()
	svc := NewOrganizationService(tr.repo, testLogger())

	orgID := utils.GenerateUUID()
	seedAuditLog(tr, orgID, "organization.update", "organization", orgID, time.Now())

	page, err := svc.ListAuditLogs(context.Background(), orgID, 0, -5)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.PerPage != 20 {
		t.Errorf("clamped pagination = page %d per_page %d, want 1/20",
			page.Pagination.Page, page.Pagination.PerPage)
	}
	if len(page.Data) != 1 {
		t.Errorf("rows = %d, want 1", len(page.Data))
	}
}

func TestGetEntityHistoryScopedToOrganization(t *testing.T) {
	tr := newTestRepo()
	svc := NewOrganizationService(tr.repo, testLogger())

	orgID := utils.GenerateUUID()
	otherOrg := utils.GenerateUUID()
	voucherID := utils.GenerateUUID()
	now := time.Now()

	seedAuditLog(tr, orgID, "voucher.purchase", "voucher", voucherID, now)
	seedAuditLog(tr, orgID, "voucher.consume", "voucher", voucherID, now.Add(time.Minute))
	seedAuditLog(tr, otherOrg, "voucher.consume", "voucher", voucherID, now)
	seedAuditLog(tr, orgID, "voucher.purchase", "voucher", utils.GenerateUUID(), now)

	rows, err := svc.GetEntityHistory(context.Background(), orgID, "voucher", voucherID)
	if err != nil {
		t.Fatalf("GetEntityHistory: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.EntityID == nil || *row.EntityID != voucherID.String() {
			t.Errorf("unexpected entity id %v", row.EntityID)
		}
		if row.OrganizationID == nil || *row.OrganizationID != orgID.String() {
			t.Errorf("row leaked from another organization: %v", row.OrganizationID)
		}
	}
}
