package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ======================================================
// Customer history
// ======================================================

type ListCustomerBookings struct {
	repo domain.Repository
}

func NewListCustomerBookings(repo domain.Repository) *ListCustomerBookings {
	return &ListCustomerBookings{repo: repo}
}

func (uc *ListCustomerBookings) Execute(
	ctx context.Context,
	customerID uuid.UUID,
	status string,
) ([]models.Booking, error) {

	if status != "" && !domain.Status(status).Valid() {
		return nil, apperr.Validation("invalid_status", "unknown booking status")
	}

	return uc.repo.ListBookingsForCustomer(ctx, customerID, status)
}

// ======================================================
// Tenant day schedule
// ======================================================

type ListTenantDayBookings struct {
	repo domain.Repository
	tz   string
}

func NewListTenantDayBookings(repo domain.Repository, tz string) *ListTenantDayBookings {
	return &ListTenantDayBookings{repo: repo, tz: tz}
}

func (uc *ListTenantDayBookings) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	rawDate string,
) ([]models.Booking, error) {

	date, err := parseDate(rawDate, uc.tz)
	if err != nil {
		return nil, err
	}

	return uc.repo.ListBookingsForTenantDay(ctx, tenantID, date)
}
