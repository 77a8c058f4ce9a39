package usecase

import (
	"context"
	"sort"
	"time"

	"therapy-vouchers/internal/data/entity"
	"therapy-vouchers/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory repository fakes. The fake transaction manager just runs the
// function; atomicity is not simulated, only call behavior.

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if filter.OrganizationID != nil && (u.OrganizationID == nil || *u.OrganizationID != *filter.OrganizationID) {
			continue
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	if u, ok := r.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeOrganizationRepo struct {
	orgs map[uuid.UUID]*entity.Organization
}

func (r *fakeOrganizationRepo) Create(_ context.Context, org *entity.Organization) error {
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrganizationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Organization, error) {
	return r.orgs[id], nil
}

func (r *fakeOrganizationRepo) FindBySlug(_ context.Context, slug string) (*entity.Organization, error) {
	for _, o := range r.orgs {
		if o.Slug == slug {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrganizationRepo) List(_ context.Context, isActive *bool) ([]*entity.Organization, error) {
	var out []*entity.Organization
	for _, o := range r.orgs {
		if isActive != nil && o.IsActive != *isActive {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrganizationRepo) Update(_ context.Context, org *entity.Organization) error {
	r.orgs[org.ID] = org
	return nil
}

type fakeVoucherTypeRepo struct {
	types map[uuid.UUID]*entity.VoucherType
}

func (r *fakeVoucherTypeRepo) Create(_ context.Context, vt *entity.VoucherType) error {
	r.types[vt.ID] = vt
	return nil
}

func (r *fakeVoucherTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.VoucherType, error) {
	return r.types[id], nil
}

func (r *fakeVoucherTypeRepo) ListByOrganization(_ context.Context, _ uuid.UUID, _ *bool) ([]*entity.VoucherType, error) {
	return nil, nil
}

func (r *fakeVoucherTypeRepo) ListAvailable(_ context.Context) ([]*entity.VoucherType, error) {
	return nil, nil
}

func (r *fakeVoucherTypeRepo) Update(_ context.Context, vt *entity.VoucherType) error {
	r.types[vt.ID] = vt
	return nil
}

func (r *fakeVoucherTypeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if vt, ok := r.types[id]; ok {
		vt.IsActive = false
	}
	return nil
}

type fakeVoucherRepo struct {
	vouchers map[uuid.UUID]*entity.Voucher
}

func (r *fakeVoucherRepo) Create(_ context.Context, v *entity.Voucher) error {
	cp := *v
	r.vouchers[v.ID] = &cp
	return nil
}

func (r *fakeVoucherRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Voucher, error) {
	if v, ok := r.vouchers[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeVoucherRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeVoucherRepo) List(_ context.Context, filter repository.VoucherFilter) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, v := range r.vouchers {
		if filter.ClientID != nil && (v.ClientID == nil || *v.ClientID != *filter.ClientID) {
			continue
		}
		if filter.OrganizationID != nil && v.OrganizationID != *filter.OrganizationID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeVoucherRepo) Update(_ context.Context, v *entity.Voucher) error {
	cp := *v
	r.vouchers[v.ID] = &cp
	return nil
}

func (r *fakeVoucherRepo) CountPurchasedInYear(_ context.Context, year int) (int64, error) {
	var n int64
	for _, v := range r.vouchers {
		if v.PurchaseDate.Year() == year {
			n++
		}
	}
	return n, nil
}

func (r *fakeVoucherRepo) ExpireOverdue(_ context.Context) (int64, error) {
	now := time.Now()
	var n int64
	for _, v := range r.vouchers {
		if (v.Status == entity.VoucherStatusPending || v.Status == entity.VoucherStatusActive) &&
			v.ValidUntil.Before(now) {
			v.Status = entity.VoucherStatusExpired
			n++
		}
	}
	return n, nil
}

type fakeVoucherCodeRepo struct {
	codes map[uuid.UUID]*entity.VoucherCode
}

func (r *fakeVoucherCodeRepo) CreateBatch(_ context.Context, codes []*entity.VoucherCode) error {
	for _, c := range codes {
		cp := *c
		r.codes[c.ID] = &cp
	}
	return nil
}

func (r *fakeVoucherCodeRepo) FindByCode(_ context.Context, code string) (*entity.VoucherCode, error) {
	for _, c := range r.codes {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeVoucherCodeRepo) FindFirstActiveForUpdate(_ context.Context, voucherID uuid.UUID, isBackup bool) (*entity.VoucherCode, error) {
	var candidates []*entity.VoucherCode
	for _, c := range r.codes {
		if c.VoucherID == voucherID && c.IsBackup == isBackup && c.Status == entity.CodeStatusActive {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	cp := *candidates[0]
	return &cp, nil
}

func (r *fakeVoucherCodeRepo) ListByVoucher(_ context.Context, voucherID uuid.UUID) ([]*entity.VoucherCode, error) {
	var out []*entity.VoucherCode
	for _, c := range r.codes {
		if c.VoucherID == voucherID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeVoucherCodeRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	c := r.codes[id]
	c.UsedCount++
	if c.UsedCount >= c.MaxUses {
		c.Status = entity.CodeStatusUsed
	}
	return nil
}

func (r *fakeVoucherCodeRepo) Exists(_ context.Context, code string) (bool, error) {
	for _, c := range r.codes {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakeReservationRepo struct {
	reservations map[uuid.UUID]*entity.Reservation
}

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	r.reservations[res.ID] = res
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.reservations[id], nil
}

func (r *fakeReservationRepo) ListByVoucher(_ context.Context, _ uuid.UUID) ([]*entity.Reservation, error) {
	return nil, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.TherapySession
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.TherapySession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) CreateBatch(ctx context.Context, sessions []*entity.TherapySession) error {
	for _, s := range sessions {
		if err := r.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.TherapySession, error) {
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TherapySession, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSessionRepo) List(_ context.Context, filter repository.SessionFilter) ([]*entity.TherapySession, error) {
	var out []*entity.TherapySession
	for _, s := range r.sessions {
		if filter.VoucherID != nil && s.VoucherID != *filter.VoucherID {
			continue
		}
		if filter.ClientID != nil && s.ClientID != *filter.ClientID {
			continue
		}
		if filter.TherapistID != nil && s.TherapistID != *filter.TherapistID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entity.TherapySession) error {
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) CountByVoucherAndStatus(_ context.Context, voucherID uuid.UUID, status entity.SessionStatus) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.VoucherID == voucherID && s.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) ListUpcomingWithoutPreparation(_ context.Context, from, to time.Time) ([]*entity.TherapySession, error) {
	var out []*entity.TherapySession
	for _, s := range r.sessions {
		if s.Status != entity.SessionStatusScheduled && s.Status != entity.SessionStatusConfirmed {
			continue
		}
		if s.PreparationSentAt != nil {
			continue
		}
		if s.ScheduledDate.Before(from) || s.ScheduledDate.After(to) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

type fakeRescheduleRepo struct {
	requests map[uuid.UUID]*entity.RescheduleRequest
}

func (r *fakeRescheduleRepo) Create(_ context.Context, req *entity.RescheduleRequest) error {
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRescheduleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	if req, ok := r.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRescheduleRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRescheduleRepo) FindPendingBySession(_ context.Context, sessionID uuid.UUID) (*entity.RescheduleRequest, error) {
	for _, req := range r.requests {
		if req.SessionID == sessionID && req.Status == entity.RescheduleStatusPending {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRescheduleRepo) ListPendingByTherapist(_ context.Context, _ uuid.UUID) ([]*entity.RescheduleRequest, error) {
	return nil, nil
}

func (r *fakeRescheduleRepo) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]*entity.RescheduleRequest, error) {
	var out []*entity.RescheduleRequest
	for _, req := range r.requests {
		if req.RequestedBy == requesterID {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRescheduleRepo) Update(_ context.Context, req *entity.RescheduleRequest) error {
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error { return nil }

type fakeAuditRepo struct {
	logs []*entity.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, l := range r.logs {
		if l.EntityType == entityType && l.EntityID != nil && *l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ListByOrganization(_ context.Context, orgID uuid.UUID, limit, offset int) ([]*entity.AuditLog, error) {
	var matched []*entity.AuditLog
	for _, l := range r.logs {
		if l.OrganizationID != nil && *l.OrganizationID == orgID {
			matched = append(matched, l)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeAuditRepo) CountByOrganization(_ context.Context, orgID uuid.UUID) (int64, error) {
	var n int64
	for _, l := range r.logs {
		if l.OrganizationID != nil && *l.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

type testRepo struct {
	repo          *repository.Repository
	users         *fakeUserRepo
	orgs          *fakeOrganizationRepo
	voucherTypes  *fakeVoucherTypeRepo
	vouchers      *fakeVoucherRepo
	codes         *fakeVoucherCodeRepo
	reservations  *fakeReservationRepo
	sessions      *fakeSessionRepo
	reschedules   *fakeRescheduleRepo
	notifications *fakeNotificationRepo
	audits        *fakeAuditRepo
}

func newTestRepo() *testRepo {
	tr := &testRepo{
		users:         &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		orgs:          &fakeOrganizationRepo{orgs: map[uuid.UUID]*entity.Organization{}},
		voucherTypes:  &fakeVoucherTypeRepo{types: map[uuid.UUID]*entity.VoucherType{}},
		vouchers:      &fakeVoucherRepo{vouchers: map[uuid.UUID]*entity.Voucher{}},
		codes:         &fakeVoucherCodeRepo{codes: map[uuid.UUID]*entity.VoucherCode{}},
		reservations:  &fakeReservationRepo{reservations: map[uuid.UUID]*entity.Reservation{}},
		sessions:      &fakeSessionRepo{sessions: map[uuid.UUID]*entity.TherapySession{}},
		reschedules:   &fakeRescheduleRepo{requests: map[uuid.UUID]*entity.RescheduleRequest{}},
		notifications: &fakeNotificationRepo{},
		audits:        &fakeAuditRepo{},
	}
	tr.repo = &repository.Repository{
		Tx:           fakeTx{},
		User:         tr.users,
		Organization: tr.orgs,
		VoucherType:  tr.voucherTypes,
		Voucher:      tr.vouchers,
		VoucherCode:  tr.codes,
		Reservation:  tr.reservations,
		Session:      tr.sessions,
		Reschedule:   tr.reschedules,
		Notification: tr.notifications,
		Audit:        tr.audits,
	}
	return tr
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
