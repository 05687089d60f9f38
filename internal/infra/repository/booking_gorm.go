package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// CreateBooking locks the occupying rows for the slot's provider scope and
// date, rejects on overlap, then inserts. Two writers that both saw an
// empty slot lock nothing, so the bookings_no_overlap exclusion constraint
// stays the authoritative guard; its violation surfaces as a conflict.
func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts []models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"provider_id IS NOT DISTINCT FROM ? AND appointment_date = ? AND status IN ? AND start_time < ? AND end_time > ?",
				b.ProviderID,
				b.AppointmentDate,
				booking.OccupyingStatuses(),
				b.EndTime,
				b.StartTime,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return apperr.Conflict("slot_taken", "the requested time slot is no longer available")
		}

		return tx.Create(b).Error
	})

	return translateWriteError(err)
}

// --------------------------------------------------
// Booking (read / mutate)
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("booking_not_found", "booking does not exist")
		}
		return nil, err
	}

	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	// A move that lands on an occupied slot still trips the exclusion
	// constraint; translate it instead of surfacing a driver error.
	return translateWriteError(r.db.WithContext(ctx).Save(b).Error)
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uuid.UUID,
) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Booking{}).Error
}

// --------------------------------------------------
// Conflict window
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveIntervals(
	ctx context.Context,
	providerID *uuid.UUID,
	date time.Time,
	excludeID *uuid.UUID,
) ([]booking.Interval, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("start_time", "end_time").
		Where("provider_id IS NOT DISTINCT FROM ?", providerID).
		Where("appointment_date = ?", date).
		Where("status IN ?", booking.OccupyingStatuses())

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var rows []models.Booking
	if err := q.Order("start_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	intervals := make([]booking.Interval, 0, len(rows))
	for _, row := range rows {
		iv, err := booking.NewInterval(row.StartTime, row.EndTime)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}

// --------------------------------------------------
// Listings
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForTenantDay(
	ctx context.Context,
	tenantID uuid.UUID,
	date time.Time,
) ([]models.Booking, error) {

	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Provider").
		Joins("JOIN users ON users.id = bookings.customer_id").
		Where("users.owning_tenant_id = ?", tenantID).
		Where("bookings.appointment_date = ?", date).
		Order("bookings.start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *BookingGormRepository) ListBookingsForCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	status string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Provider").
		Where("customer_id = ?", customerID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []models.Booking
	if err := q.
		Order("appointment_date DESC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
