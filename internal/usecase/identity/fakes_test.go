package identity_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// fakeUserRepo keeps users in a map and mirrors the role-scoped uniqueness
// rules the real schema enforces with partial unique indexes.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User

	findTenantCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

// tenantLookups reports how often FindTenantByDomain ran, so cache tests
// can tell a hit from a lookup.
func (f *fakeUserRepo) tenantLookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findTenantCalls
}

func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if user.Role == string(domain.RoleCustomerAdmin) && ex.Role == string(domain.RoleCustomerAdmin) {
			if ex.Domain == user.Domain {
				return apperr.DuplicateDomain("domain_taken", "domain is already registered to another tenant")
			}
			if ex.Email == user.Email && ex.Domain == user.Domain {
				return apperr.DuplicateEmail("email_taken", "email is already registered")
			}
		}
		if user.Role == string(domain.RoleClient) && ex.Role == string(domain.RoleClient) &&
			ex.Email == user.Email && sameTenant(ex.OwningTenantID, user.OwningTenantID) {
			return apperr.DuplicateEmail("email_taken", "email is already registered")
		}
		if user.Role == string(domain.RoleAdministrator) && ex.Role == string(domain.RoleAdministrator) &&
			ex.Email == user.Email {
			return apperr.DuplicateEmail("email_taken", "email is already registered")
		}
		if user.ExternalIdentityID != nil && ex.ExternalIdentityID != nil &&
			*ex.ExternalIdentityID == *user.ExternalIdentityID {
			return apperr.DuplicateEmail("external_identity_taken", "external identity is already linked to an account")
		}
	}

	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return errors.New("update of unknown user")
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user.Role == string(domain.RoleCustomerAdmin) {
		for _, ex := range f.users {
			if ex.OwningTenantID != nil && *ex.OwningTenantID == user.ID {
				ex.OwningTenantID = nil
			}
		}
	}

	delete(f.users, user.ID)
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user_not_found", "user does not exist")
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) FindTenantByDomain(ctx context.Context, dom string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.findTenantCalls++
	for _, ex := range f.users {
		if ex.Role == string(domain.RoleCustomerAdmin) && ex.Domain == dom {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindClientUnderTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if ex.Role == string(domain.RoleClient) && ex.Email == email &&
			ex.OwningTenantID != nil && *ex.OwningTenantID == tenantID {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAdminByEmailAndDomain(ctx context.Context, email, dom string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if ex.Role == string(domain.RoleCustomerAdmin) && ex.Email == email && ex.Domain == dom {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if ex.Role == string(role) && ex.Email == email {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var oldest *models.User
	for _, ex := range f.users {
		if ex.Email != email {
			continue
		}
		if oldest == nil || ex.CreatedAt.Before(oldest.CreatedAt) {
			oldest = ex
		}
	}
	if oldest == nil {
		return nil, nil
	}
	cp := *oldest
	return &cp, nil
}

func (f *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if ex.ExternalIdentityID != nil && *ex.ExternalIdentityID == externalID {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ex := range f.users {
		if ex.ResetTokenHash != nil && *ex.ResetTokenHash == digest &&
			ex.ResetTokenExpiry != nil && ex.ResetTokenExpiry.After(now) {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListClientsUnderTenant(ctx context.Context, tenantID uuid.UUID, query string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.User
	for _, ex := range f.users {
		if ex.Role != string(domain.RoleClient) || ex.OwningTenantID == nil || *ex.OwningTenantID != tenantID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ex.FullName), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(ex.Email), strings.ToLower(query)) {
			continue
		}
		out = append(out, *ex)
	}
	return out, nil
}

var _ domain.Repository = (*fakeUserRepo)(nil)

// ===============================
// Mailer / audit fakes
// ===============================

type fakeMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []fakeMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() fakeMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fakeSink struct {
	mu      sync.Mutex
	actions []string
}

func (s *fakeSink) Log(tenantID, actorID *uuid.UUID, action, entity string, entityID *uuid.UUID, metadata any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return nil
}

func newTestDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(&fakeSink{})
}
