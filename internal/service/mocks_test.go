package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/service"
	"github.com/SoftwareVerse/userverse/internal/store"
)

type mockUserStore struct {
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
	updateFn         func(ctx context.Context, user *model.User) error
	updateStatusFn   func(ctx context.Context, id int64, status model.AccountStatus) error
	updatePasswordFn func(ctx context.Context, id int64, hash string) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpdateStatus(ctx context.Context, id int64, status model.AccountStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}

type mockCompanyStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.Company, error)
	getByEmailFn func(ctx context.Context, email string) (*model.Company, error)
	createFn     func(ctx context.Context, company *model.Company) error
	updateFn     func(ctx context.Context, company *model.Company) error
	listByUserFn func(ctx context.Context, userID int64, page model.Page) ([]model.Company, int, error)
}

func (m *mockCompanyStore) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockCompanyStore) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockCompanyStore) Create(ctx context.Context, company *model.Company) error {
	if m.createFn != nil {
		return m.createFn(ctx, company)
	}
	return nil
}

func (m *mockCompanyStore) Update(ctx context.Context, company *model.Company) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, company)
	}
	return nil
}

func (m *mockCompanyStore) ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Company, int, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, page)
	}
	return nil, 0, nil
}

type mockRoleStore struct {
	getFn    func(ctx context.Context, companyID int64, name string) (*model.Role, error)
	createFn func(ctx context.Context, role *model.Role) error
	updateFn func(ctx context.Context, role *model.Role) error
	deleteFn func(ctx context.Context, companyID int64, name string) error
	listFn   func(ctx context.Context, companyID int64, page model.Page) ([]model.Role, int, error)
	created  []model.Role
}

func (m *mockRoleStore) Get(ctx context.Context, companyID int64, name string) (*model.Role, error) {
	if m.getFn != nil {
		return m.getFn(ctx, companyID, name)
	}
	return &model.Role{CompanyID: companyID, Name: name}, nil
}

func (m *mockRoleStore) Create(ctx context.Context, role *model.Role) error {
	m.created = append(m.created, *role)
	if m.createFn != nil {
		return m.createFn(ctx, role)
	}
	return nil
}

func (m *mockRoleStore) Update(ctx context.Context, role *model.Role) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleStore) Delete(ctx context.Context, companyID int64, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, companyID, name)
	}
	return nil
}

func (m *mockRoleStore) List(ctx context.Context, companyID int64, page model.Page) ([]model.Role, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, companyID, page)
	}
	return nil, 0, nil
}

type mockMemberStore struct {
	getFn         func(ctx context.Context, companyID, userID int64) (*model.Member, error)
	addFn         func(ctx context.Context, member *model.Member) error
	removeFn      func(ctx context.Context, companyID, userID int64) error
	listFn        func(ctx context.Context, companyID int64, page model.Page) ([]model.Member, int, error)
	countByRoleFn func(ctx context.Context, companyID int64, roleName string) (int, error)
	added         []model.Member
	removed       []int64
}

func (m *mockMemberStore) Get(ctx context.Context, companyID, userID int64) (*model.Member, error) {
	if m.getFn != nil {
		return m.getFn(ctx, companyID, userID)
	}
	return nil, store.ErrNotFound
}

func (m *mockMemberStore) Add(ctx context.Context, member *model.Member) error {
	m.added = append(m.added, *member)
	if m.addFn != nil {
		return m.addFn(ctx, member)
	}
	return nil
}

func (m *mockMemberStore) Remove(ctx context.Context, companyID, userID int64) error {
	m.removed = append(m.removed, userID)
	if m.removeFn != nil {
		return m.removeFn(ctx, companyID, userID)
	}
	return nil
}

func (m *mockMemberStore) List(ctx context.Context, companyID int64, page model.Page) ([]model.Member, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, companyID, page)
	}
	return nil, 0, nil
}

func (m *mockMemberStore) CountByRole(ctx context.Context, companyID int64, roleName string) (int, error) {
	if m.countByRoleFn != nil {
		return m.countByRoleFn(ctx, companyID, roleName)
	}
	return 0, nil
}

type mockPasswordResetStore struct {
	mu      sync.Mutex
	resets  map[int64]*model.PasswordReset
	upserts int
}

func newMockPasswordResetStore() *mockPasswordResetStore {
	return &mockPasswordResetStore{resets: make(map[int64]*model.PasswordReset)}
}

func (m *mockPasswordResetStore) Upsert(_ context.Context, reset *model.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	r := *reset
	m.resets[reset.UserID] = &r
	return nil
}

func (m *mockPasswordResetStore) Get(_ context.Context, userID int64) (*model.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockPasswordResetStore) IncrementAttempts(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[userID]
	if !ok {
		return 0, store.ErrNotFound
	}
	r.Attempts++
	return r.Attempts, nil
}

func (m *mockPasswordResetStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resets, userID)
	return nil
}

func (m *mockPasswordResetStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.resets {
		if r.ExpiresAt.Before(before) {
			delete(m.resets, id)
			n++
		}
	}
	return n, nil
}

type mockStores struct {
	users     *mockUserStore
	companies *mockCompanyStore
	roles     *mockRoleStore
	members   *mockMemberStore
	resets    *mockPasswordResetStore
}

func newMockStores() *mockStores {
	return &mockStores{
		users:     &mockUserStore{},
		companies: &mockCompanyStore{},
		roles:     &mockRoleStore{},
		members:   &mockMemberStore{},
		resets:    newMockPasswordResetStore(),
	}
}

func (m *mockStores) Users() store.UserStore                   { return m.users }
func (m *mockStores) Companies() store.CompanyStore            { return m.companies }
func (m *mockStores) Roles() store.RoleStore                   { return m.roles }
func (m *mockStores) Members() store.MemberStore               { return m.members }
func (m *mockStores) PasswordResets() store.PasswordResetStore { return m.resets }

// mockTxRunner runs fn against the same mock stores; it does not roll back.
type mockTxRunner struct {
	stores service.StoreProvider
	calls  int
	err    error
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(m.stores)
}

type sentMail struct {
	To       string
	Subject  string
	Template string
	Data     map[string]any
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) SendTemplate(_ context.Context, to, subject, templateName string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Template: templateName, Data: data})
	return m.err
}

func (m *mockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type mockLimiter struct {
	err   error
	calls []string
}

func (m *mockLimiter) Check(_ context.Context, email, ip string) error {
	m.calls = append(m.calls, email+"|"+ip)
	return m.err
}
