package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	identdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// authorizeCustomerAccess decides whether the actor may act on a customer's
// bookings: the customer themselves, an administrator, or the customeradmin
// owning the customer. Returns the actor for follow-up role checks.
func authorizeCustomerAccess(
	ctx context.Context,
	users identdomain.Repository,
	actorID uuid.UUID,
	customerID uuid.UUID,
) (*models.User, error) {

	actor, err := users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if actor.ID == customerID {
		return actor, nil
	}

	switch actor.Role {
	case string(identdomain.RoleAdministrator):
		return actor, nil

	case string(identdomain.RoleCustomerAdmin):
		customer, err := users.GetUserByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if customer.OwningTenantID != nil && *customer.OwningTenantID == actor.ID {
			return actor, nil
		}
	}

	return nil, apperr.Forbidden("forbidden", "you cannot manage this booking")
}

func authorizeBookingAccess(
	ctx context.Context,
	users identdomain.Repository,
	actorID uuid.UUID,
	b *models.Booking,
) (*models.User, error) {
	return authorizeCustomerAccess(ctx, users, actorID, b.CustomerID)
}
