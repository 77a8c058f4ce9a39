package usecase

import (
	"context"
	"testing"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/dto/request"
	"therapy-vouchers/pkg/apperr"
	"therapy-vouchers/pkg/utils"

	"github.com/google/uuid"
)

func testConfig() *utils.Config {
	return &utils.Config{Auth: utils.AuthConfig{BcryptCost: 4, SessionExpiryHours: 24}}
}

func seedUser(tr *testRepo, role entity.UserRole, active bool) *entity.User {
	now := time.Now()
	u := &entity.User{
		Base:     entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Email:    u4() + "@example.com",
		Name:     "Test User",
		Role:     role,
		IsActive: active,
	}
	tr.users.users[u.ID] = u
	return u
}

func seedOrganization(tr *testRepo, name string) *entity.Organization {
	now := time.Now()
	o := &entity.Organization{
		Base:     entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Name:     name,
		Slug:     utils.Slugify(name),
		IsActive: true,
	}
	tr.orgs.orgs[o.ID] = o
	return o
}

func u4() string {
	return uuid.NewString()[:8]
}

func TestAdminCreateUserIsActiveImmediately(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	org := seedOrganization(tr, "Praxis Nord")

	orgID := org.ID.String()
	resp, err := svc.CreateUser(context.Background(), admin.ID, &request.AdminCreateUserRequest{
		Email:          "therapist@example.com",
		Password:       "supersecret",
		Name:           "New Therapist",
		Role:           "therapist",
		OrganizationID: &orgID,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if !resp.IsActive {
		t.Error("admin-created user should be active without approval")
	}

	created, _ := tr.users.FindByEmail(context.Background(), "therapist@example.com")
	if created == nil {
		t.Fatal("user not persisted")
	}
	if created.OrganizationID == nil || *created.OrganizationID != org.ID {
		t.Error("organization not bound")
	}
	if created.PasswordHash == "" || created.PasswordHash == "supersecret" {
		t.Error("password not hashed")
	}
	if len(tr.audits.logs) != 1 || tr.audits.logs[0].Action != "user.create" {
		t.Errorf("expected one user.create audit row, got %d", len(tr.audits.logs))
	}
}

func TestAdminCreateUserRejectsDuplicateEmail(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	existing := seedUser(tr, entity.RoleClient, true)

	_, err := svc.CreateUser(context.Background(), admin.ID, &request.AdminCreateUserRequest{
		Email:    existing.Email,
		Password: "supersecret",
		Name:     "Duplicate",
		Role:     "client",
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("kind = %v, want conflict", apperr.KindOf(err))
	}
}

func TestAdminCreateUserUnknownOrganization(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)

	missing := utils.GenerateUUID().String()
	_, err := svc.CreateUser(context.Background(), admin.ID, &request.AdminCreateUserRequest{
		Email:          "orphan@example.com",
		Password:       "supersecret",
		Name:           "Orphan",
		Role:           "staff",
		OrganizationID: &missing,
	})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want not_found", apperr.KindOf(err))
	}
}

func TestAdminListUsersFilters(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())

	seedUser(tr, entity.RoleClient, true)
	seedUser(tr, entity.RoleTherapist, true)
	pending := seedUser(tr, entity.RoleTherapist, false)

	role := entity.RoleTherapist
	inactive := false
	users, err := svc.ListUsers(context.Background(), &role, nil, &inactive)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	if users[0].ID != pending.ID.String() {
		t.Errorf("wrong user returned: %s", users[0].ID)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	victim := seedUser(tr, entity.RoleClient, true)

	if err := svc.DeleteUser(context.Background(), admin.ID, victim.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, ok := tr.users.users[victim.ID]; ok {
		t.Error("user still present after delete")
	}
	if len(tr.audits.logs) != 1 || tr.audits.logs[0].Action != "user.delete" {
		t.Error("missing user.delete audit row")
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)

	err := svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.KindOf(err))
	}
	if _, ok := tr.users.users[admin.ID]; !ok {
		t.Error("admin account was deleted")
	}
}

func TestAdminApproveUserBindsOrganization(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	pending := seedUser(tr, entity.RoleTherapist, false)
	org := seedOrganization(tr, "Praxis Süd")

	resp, err := svc.ApproveUser(context.Background(), admin.ID, &request.AdminApproveUserRequest{
		UserID:         pending.ID.String(),
		OrganizationID: org.ID.String(),
	})
	if err != nil {
		t.Fatalf("ApproveUser: %v", err)
	}
	if !resp.IsActive {
		t.Error("user not activated")
	}

	stored := tr.users.users[pending.ID]
	if stored.OrganizationID == nil || *stored.OrganizationID != org.ID {
		t.Error("organization not bound on approval")
	}
	if stored.ApprovedBy == nil || *stored.ApprovedBy != admin.ID {
		t.Error("approver not recorded")
	}

	_, err = svc.ApproveUser(context.Background(), admin.ID, &request.AdminApproveUserRequest{
		UserID:         pending.ID.String(),
		OrganizationID: org.ID.String(),
	})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("second approval kind = %v, want conflict", apperr.KindOf(err))
	}
}

func TestAdminSetPasswordRehashes(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	user := seedUser(tr, entity.RoleClient, true)
	user.PasswordHash = "old-hash"

	err := svc.SetPassword(context.Background(), admin.ID, user.ID, &request.SetPasswordRequest{
		NewPassword: "brand-new-password",
	})
	if err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if user.PasswordHash == "old-hash" {
		t.Error("password hash unchanged")
	}
	if !utils.CheckPassword("brand-new-password", user.PasswordHash) {
		t.Error("new password does not verify")
	}
}

func TestAdminSetPasswordTooShort(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	user := seedUser(tr, entity.RoleClient, true)

	err := svc.SetPassword(context.Background(), admin.ID, user.ID, &request.SetPasswordRequest{
		NewPassword: "short",
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.KindOf(err))
	}
}

func TestAdminDeactivateOrganization(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())
	admin := seedUser(tr, entity.RoleAdmin, true)
	org := seedOrganization(tr, "Praxis West")

	resp, err := svc.DeactivateOrganization(context.Background(), admin.ID, org.ID)
	if err != nil {
		t.Fatalf("DeactivateOrganization: %v", err)
	}
	if resp.IsActive {
		t.Error("organization still active in response")
	}
	if tr.orgs.orgs[org.ID].IsActive {
		t.Error("organization still active in store")
	}
	if len(tr.audits.logs) != 1 || tr.audits.logs[0].Action != "organization.deactivate" {
		t.Error("missing organization.deactivate audit row")
	}

	_, err = svc.DeactivateOrganization(context.Background(), admin.ID, org.ID)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("second deactivation kind = %v, want conflict", apperr.KindOf(err))
	}
}

func TestAdminListVouchersFiltersByOrganization(t *testing.T) {
	tr := newTestRepo()
	svc := NewAdminService(tr.repo, testConfig(), testLogger())

	orgA := utils.GenerateUUID()
	orgB := utils.GenerateUUID()
	now := time.Now()
	for i, orgID := range []uuid.UUID{orgA, orgA, orgB} {
		v := &entity.Voucher{
			Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			OrganizationID: orgID,
			Status:         entity.VoucherStatusActive,
			InvoiceNumber:  utils.FormatInvoiceNumber(now.Year(), int64(i+1)),
		}
		tr.vouchers.vouchers[v.ID] = v
	}

	vouchers, err := svc.ListVouchers(context.Background(), &orgA, nil)
	if err != nil {
		t.Fatalf("ListVouchers: %v", err)
	}
	if len(vouchers) != 2 {
		t.Fatalf("vouchers = %d, want 2", len(vouchers))
	}
}
