package booking_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	usecase "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
)

func TestGetBookingVisibleToCustomerAndTenant(t *testing.T) {
	fx := newFixture(t)
	get := usecase.NewGetBooking(fx.repo, fx.users)

	created := fx.mustCreate(t, fx.input("09:00", 30))

	for _, actor := range []uuid.UUID{fx.client.ID, fx.tenant.ID, fx.staff.ID} {
		got, err := get.Execute(context.Background(), actor, created.ID)
		if err != nil {
			t.Fatalf("actor %s: %v", actor, err)
		}
		if got.ID != created.ID {
			t.Errorf("actor %s: got booking %s, want %s", actor, got.ID, created.ID)
		}
	}
}

func TestGetBookingHiddenFromStranger(t *testing.T) {
	fx := newFixture(t)
	get := usecase.NewGetBooking(fx.repo, fx.users)

	stranger := &models.User{
		ID:     uuid.New(),
		Email:  "peek@example.com",
		Role:   string(identdomain.RoleClient),
		Status: identdomain.StatusActive,
	}
	fx.users.add(stranger)

	created := fx.mustCreate(t, fx.input("09:00", 30))

	_, err := get.Execute(context.Background(), stranger.ID, created.ID)
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetBookingUnknownID(t *testing.T) {
	fx := newFixture(t)
	get := usecase.NewGetBooking(fx.repo, fx.users)

	_, err := get.Execute(context.Background(), fx.client.ID, uuid.New())
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
