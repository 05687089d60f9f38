package handlers

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookdomain "github.com/clinicdesk/clinic-scheduler/internal/domain/booking"
	"github.com/clinicdesk/clinic-scheduler/internal/dto"
	"github.com/clinicdesk/clinic-scheduler/internal/httperr"
	"github.com/clinicdesk/clinic-scheduler/internal/httpresp"
	booking "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create     *booking.CreateBooking
	get        *booking.GetBooking
	update     *booking.UpdateBooking
	transition *booking.TransitionBookingStatus
	remove     *booking.DeleteBooking
	avail      *booking.GetAvailability
	mine       *booking.ListCustomerBookings
	day        *booking.ListTenantDayBookings
}

func NewBookingHandler(
	create *booking.CreateBooking,
	get *booking.GetBooking,
	update *booking.UpdateBooking,
	transition *booking.TransitionBookingStatus,
	remove *booking.DeleteBooking,
	avail *booking.GetAvailability,
	mine *booking.ListCustomerBookings,
	day *booking.ListTenantDayBookings,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		get:        get,
		update:     update,
		transition: transition,
		remove:     remove,
		avail:      avail,
		mine:       mine,
		day:        day,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	PatientName     string `json:"patient_name" binding:"required"`
	PatientContact  string `json:"patient_contact"`
	Title           string `json:"title"`
	AppointmentType string `json:"appointment_type" binding:"required"`

	// CustomerID lets staff book on a customer's behalf; clients leave it
	// empty and book for themselves.
	CustomerID *uuid.UUID `json:"customer_id"`
	ProviderID *uuid.UUID `json:"provider_id"`

	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`

	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type UpdateBookingRequest struct {
	PatientName     *string `json:"patient_name"`
	PatientContact  *string `json:"patient_contact"`
	Title           *string `json:"title"`
	AppointmentType *string `json:"appointment_type"`

	Date            *string `json:"date"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationMinutes *int    `json:"duration_minutes"`

	ProviderID       *uuid.UUID `json:"provider_id"`
	UnassignProvider bool       `json:"unassign_provider"`
}

type CancelBookingRequest struct {
	Reason *string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	actor := actorID(c)
	customer := actor
	if req.CustomerID != nil {
		customer = *req.CustomerID
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		ActorID:         actor,
		CustomerID:      customer,
		PatientName:     req.PatientName,
		PatientContact:  req.PatientContact,
		Title:           req.Title,
		AppointmentType: req.AppointmentType,
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "booking id must be a UUID")
		return
	}

	b, err := h.get.Execute(c.Request.Context(), actorID(c), id)
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ListMine returns the caller's own bookings, optionally narrowed to one
// status.
func (h *BookingHandler) ListMine(c *gin.Context) {
	list, err := h.mine.Execute(c.Request.Context(), actorID(c), c.Query("status"))
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.List(c, list)
}

// DaySchedule returns every booking of the caller's tenant on one date,
// flattened for agenda views. Customeradmin only.
func (h *BookingHandler) DaySchedule(c *gin.Context) {
	list, err := h.day.Execute(c.Request.Context(), actorID(c), c.Query("date"))
	if err != nil {
		httperr.Map(c, err)
		return
	}

	out := make([]dto.BookingListDTO, 0, len(list))
	for i := range list {
		out = append(out, dto.NewBookingListDTO(&list[i]))
	}

	httpresp.List(c, out)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	providerID, ok := optionalUUIDQuery(c, "provider_id")
	if !ok {
		httperr.BadRequest(c, "invalid_provider_id", "provider_id must be a UUID")
		return
	}

	duration, _ := strconv.Atoi(c.Query("duration_minutes"))

	slots, err := h.avail.Execute(c.Request.Context(), booking.GetAvailabilityInput{
		ProviderID:      providerID,
		Date:            c.Query("date"),
		DurationMinutes: duration,
		WorkStart:       c.Query("work_start"),
		WorkEnd:         c.Query("work_end"),
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "booking id must be a UUID")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.update.Execute(c.Request.Context(), booking.UpdateBookingInput{
		BookingID:        id,
		ActorID:          actorID(c),
		PatientName:      req.PatientName,
		PatientContact:   req.PatientContact,
		Title:            req.Title,
		AppointmentType:  req.AppointmentType,
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		DurationMinutes:  req.DurationMinutes,
		ProviderID:       req.ProviderID,
		UnassignProvider: req.UnassignProvider,
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transitionTo(c, bookdomain.StatusConfirmed, nil)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transitionTo(c, bookdomain.StatusCompleted, nil)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	h.transitionTo(c, bookdomain.StatusNoShow, nil)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	h.transitionTo(c, bookdomain.StatusCancelled, req.Reason)
}

func (h *BookingHandler) transitionTo(
	c *gin.Context,
	target bookdomain.Status,
	reason *string,
) {
	id, ok := uuidParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "booking id must be a UUID")
		return
	}

	b, err := h.transition.Execute(c.Request.Context(), booking.TransitionBookingStatusInput{
		BookingID:          id,
		ActorID:            actorID(c),
		Target:             string(target),
		CancellationReason: reason,
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_booking_id", "booking id must be a UUID")
		return
	}

	if err := h.remove.Execute(c.Request.Context(), actorID(c), id); err != nil {
		httperr.Map(c, err)
		return
	}

	httpresp.NoContent(c)
}
