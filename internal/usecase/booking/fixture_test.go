package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	usecase "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
)

// fixture wires every booking usecase against the in-memory fakes, with a
// tenant, one of its clients and a staff account pre-seeded.
type fixture struct {
	repo  *fakeBookingRepo
	users *stubUserRepo

	tenant *models.User
	client *models.User
	staff  *models.User

	date string // a week out, always bookable

	create     *usecase.CreateBooking
	update     *usecase.UpdateBooking
	transition *usecase.TransitionBookingStatus
	delete     *usecase.DeleteBooking
	avail      *usecase.GetAvailability
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newStubUserRepo()

	tenant := &models.User{
		ID:     uuid.New(),
		Email:  "owner@nordclinic.example",
		Role:   string(identdomain.RoleCustomerAdmin),
		Status: identdomain.StatusActive,
		Domain: "nordclinic",
	}
	client := &models.User{
		ID:             uuid.New(),
		Email:          "jon@example.com",
		Role:           string(identdomain.RoleClient),
		Status:         identdomain.StatusActive,
		OwningTenantID: &tenant.ID,
	}
	staff := &models.User{
		ID:     uuid.New(),
		Email:  "ops@clinicdesk.example",
		Role:   string(identdomain.RoleAdministrator),
		Status: identdomain.StatusActive,
	}
	users.add(tenant)
	users.add(client)
	users.add(staff)

	repo := newFakeBookingRepo(users)
	engine := domain.NewSlotEngine(repo)
	auditor := newTestDispatcher()
	const tz = "UTC"

	return &fixture{
		repo:       repo,
		users:      users,
		tenant:     tenant,
		client:     client,
		staff:      staff,
		date:       time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02"),
		create:     usecase.NewCreateBooking(repo, users, engine, auditor, tz),
		update:     usecase.NewUpdateBooking(repo, users, engine, auditor, tz),
		transition: usecase.NewTransitionBookingStatus(repo, users, auditor, tz),
		delete:     usecase.NewDeleteBooking(repo, users, auditor),
		avail:      usecase.NewGetAvailability(engine, tz, "08:00", "18:00"),
	}
}

// input builds a minimal valid create request: the client books for
// themselves in the shared pool.
func (fx *fixture) input(start string, durationMin int) usecase.CreateBookingInput {
	return usecase.CreateBookingInput{
		ActorID:         fx.client.ID,
		CustomerID:      fx.client.ID,
		PatientName:     "Mara Voss",
		AppointmentType: string(domain.TypeConsultation),
		Date:            fx.date,
		StartTime:       start,
		DurationMinutes: durationMin,
	}
}

func (fx *fixture) mustCreate(t *testing.T, in usecase.CreateBookingInput) *models.Booking {
	t.Helper()
	b, err := fx.create.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("creating booking at %s: %v", in.StartTime, err)
	}
	return b
}

// addStaffProvider seeds another staff account usable as a provider.
func (fx *fixture) addStaffProvider() *models.User {
	p := &models.User{
		ID:     uuid.New(),
		Email:  "dr@" + uuid.NewString()[:8] + ".example",
		Role:   string(identdomain.RoleCustomerAdmin),
		Status: identdomain.StatusActive,
	}
	fx.users.add(p)
	return p
}
