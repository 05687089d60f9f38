package booking_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ===============================
// Booking store fake
// ===============================

// fakeBookingRepo keeps bookings in a map and re-checks slot exclusivity
// inside the same critical section as the insert, mirroring what the real
// store does with its exclusion constraint: of two racing writers for an
// overlapping interval, exactly one wins.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*models.Booking
	users    *stubUserRepo

	listCalls int
}

func newFakeBookingRepo(users *stubUserRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*models.Booking),
		users:    users,
	}
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

// intervalLookups reports how often ListActiveIntervals ran, so tests can
// tell whether an update skipped the availability check.
func (f *fakeBookingRepo) intervalLookups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func sameScope(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// overlapsLocked must run under f.mu.
func (f *fakeBookingRepo) overlapsLocked(b *models.Booking, exclude *uuid.UUID) bool {
	iv, err := domain.NewInterval(b.StartTime, b.EndTime)
	if err != nil {
		return false
	}
	for _, ex := range f.bookings {
		if exclude != nil && ex.ID == *exclude {
			continue
		}
		if !domain.Status(ex.Status).Occupies() {
			continue
		}
		if !sameScope(ex.ProviderID, b.ProviderID) || !sameDay(ex.AppointmentDate, b.AppointmentDate) {
			continue
		}
		exIv, err := domain.NewInterval(ex.StartTime, ex.EndTime)
		if err != nil {
			continue
		}
		if iv.Overlaps(exIv) {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if domain.Status(b.Status).Occupies() && f.overlapsLocked(b, nil) {
		return apperr.Conflict("slot_taken", "an overlapping booking already exists")
	}

	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, apperr.NotFound("booking_not_found", "booking does not exist")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.bookings[b.ID]; !ok {
		return apperr.NotFound("booking_not_found", "booking does not exist")
	}
	if domain.Status(b.Status).Occupies() && f.overlapsLocked(b, &b.ID) {
		return apperr.Conflict("slot_taken", "an overlapping booking already exists")
	}

	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) ListActiveIntervals(
	ctx context.Context,
	providerID *uuid.UUID,
	date time.Time,
	excludeID *uuid.UUID,
) ([]domain.Interval, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++

	var out []domain.Interval
	for _, ex := range f.bookings {
		if excludeID != nil && ex.ID == *excludeID {
			continue
		}
		if !domain.Status(ex.Status).Occupies() {
			continue
		}
		if !sameScope(ex.ProviderID, providerID) || !sameDay(ex.AppointmentDate, date) {
			continue
		}
		iv, err := domain.NewInterval(ex.StartTime, ex.EndTime)
		if err != nil {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListBookingsForTenantDay(
	ctx context.Context,
	tenantID uuid.UUID,
	date time.Time,
) ([]models.Booking, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for _, b := range f.bookings {
		if !sameDay(b.AppointmentDate, date) {
			continue
		}
		customer := f.users.get(b.CustomerID)
		if customer == nil || customer.OwningTenantID == nil || *customer.OwningTenantID != tenantID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeBookingRepo) ListBookingsForCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	status string,
) ([]models.Booking, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

var _ domain.Repository = (*fakeBookingRepo)(nil)

// ===============================
// User directory stub
// ===============================

// stubUserRepo serves GetUserByID from a fixed map. Booking usecases never
// touch the rest of the directory, so those methods are inert.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (s *stubUserRepo) add(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *stubUserRepo) get(id uuid.UUID) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u := s.get(id); u != nil {
		return u, nil
	}
	return nil, apperr.NotFound("user_not_found", "user does not exist")
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	s.add(user)
	return nil
}

func (s *stubUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	s.add(user)
	return nil
}

func (s *stubUserRepo) DeleteUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, user.ID)
	return nil
}

func (s *stubUserRepo) FindTenantByDomain(ctx context.Context, dom string) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindClientUnderTenant(ctx context.Context, email string, tenantID uuid.UUID) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindAdminByEmailAndDomain(ctx context.Context, email, dom string) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindByEmailAndRole(ctx context.Context, email string, role identdomain.Role) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	return nil, nil
}

func (s *stubUserRepo) ListClientsUnderTenant(ctx context.Context, tenantID uuid.UUID, query string) ([]models.User, error) {
	return nil, nil
}

var _ identdomain.Repository = (*stubUserRepo)(nil)

// ===============================
// Audit fake
// ===============================

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
