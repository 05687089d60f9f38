package booking_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	usecase "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
)

func TestCreateBookingStartsPending(t *testing.T) {
	fx := newFixture(t)

	b := fx.mustCreate(t, fx.input("09:00", 30))

	if b.Status != string(domain.StatusPending) {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.EndTime != "09:30" {
		t.Errorf("end time = %s, want computed 09:30", b.EndTime)
	}
	if b.DurationMinutes != 30 {
		t.Errorf("duration = %d, want 30", b.DurationMinutes)
	}
	if fx.repo.count() != 1 {
		t.Errorf("stored %d bookings, want 1", fx.repo.count())
	}
}

func TestCreateBookingAcceptsEndTime(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 0)
	in.EndTime = "09:45"
	b := fx.mustCreate(t, in)

	if b.DurationMinutes != 45 {
		t.Errorf("duration = %d, want derived 45", b.DurationMinutes)
	}
}

func TestCreateBookingDurationMismatch(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.EndTime = "10:00"
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	fx := newFixture(t)
	fx.mustCreate(t, fx.input("09:00", 60))

	_, err := fx.create.Execute(context.Background(), fx.input("09:30", 60))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if fx.repo.count() != 1 {
		t.Errorf("stored %d bookings, want 1", fx.repo.count())
	}
}

func TestCreateBookingBackToBack(t *testing.T) {
	fx := newFixture(t)

	fx.mustCreate(t, fx.input("09:00", 30))
	fx.mustCreate(t, fx.input("09:30", 30))

	if fx.repo.count() != 2 {
		t.Errorf("stored %d bookings, want 2 touching bookings", fx.repo.count())
	}
}

func TestCreateBookingRejectsPastDate(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.Date = "2020-01-15"
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingRejectsUnknownType(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.AppointmentType = "checkup"
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingRequiresPatientName(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.PatientName = ""
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	fx := newFixture(t)
	b := fx.mustCreate(t, fx.input("09:00", 30))

	_, err := fx.transition.Execute(context.Background(), usecase.TransitionBookingStatusInput{
		BookingID: b.ID,
		ActorID:   fx.client.ID,
		Target:    string(domain.StatusCancelled),
	})
	if err != nil {
		t.Fatalf("cancelling: %v", err)
	}

	// Same slot, same scope: free again.
	fx.mustCreate(t, fx.input("09:00", 30))
}

func TestProviderScopesDoNotContend(t *testing.T) {
	fx := newFixture(t)
	drA := fx.addStaffProvider()
	drB := fx.addStaffProvider()

	pool := fx.input("09:00", 30)

	withA := fx.input("09:00", 30)
	withA.ProviderID = &drA.ID

	withB := fx.input("09:00", 30)
	withB.ProviderID = &drB.ID

	fx.mustCreate(t, pool)
	fx.mustCreate(t, withA)
	fx.mustCreate(t, withB)

	// The shared pool is itself a scope: a second unassigned booking at the
	// same time conflicts.
	_, err := fx.create.Execute(context.Background(), fx.input("09:00", 30))
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected pool conflict, got %v", err)
	}
}

func TestCreateBookingRejectsClientAsProvider(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.ProviderID = &fx.client.ID
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingUnknownProvider(t *testing.T) {
	fx := newFixture(t)

	ghost := uuid.New()
	in := fx.input("09:00", 30)
	in.ProviderID = &ghost
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBookingOnBehalfByOwningTenant(t *testing.T) {
	fx := newFixture(t)

	in := fx.input("09:00", 30)
	in.ActorID = fx.tenant.ID
	b := fx.mustCreate(t, in)

	if b.CustomerID != fx.client.ID {
		t.Errorf("CustomerID = %s, want the client %s", b.CustomerID, fx.client.ID)
	}
}

func TestCreateBookingOnBehalfForbiddenForStranger(t *testing.T) {
	fx := newFixture(t)

	stranger := &models.User{
		ID:     uuid.New(),
		Email:  "mallory@example.com",
		Role:   string(identdomain.RoleClient),
		Status: identdomain.StatusActive,
	}
	fx.users.add(stranger)

	in := fx.input("09:00", 30)
	in.ActorID = stranger.ID
	_, err := fx.create.Execute(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if fx.repo.count() != 0 {
		t.Errorf("stored %d bookings, want 0", fx.repo.count())
	}
}

func TestConcurrentCreationExactlyOneWins(t *testing.T) {
	fx := newFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.create.Execute(context.Background(), fx.input("09:00", 60))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins = %d, conflicts = %d; want exactly one of each", wins, conflicts)
	}
	if fx.repo.count() != 1 {
		t.Errorf("stored %d bookings, want 1", fx.repo.count())
	}
}
