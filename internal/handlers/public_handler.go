package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-scheduler/internal/httperr"
	"github.com/clinicdesk/clinic-scheduler/internal/middleware"
	booking "github.com/clinicdesk/clinic-scheduler/internal/usecase/booking"
	identity "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated booking-page surface. Every
// endpoint is scoped by the X-Tenant-Domain header.
type PublicHandler struct {
	tenants *identity.TenantResolver
	avail   *booking.GetAvailability
}

func NewPublicHandler(
	tenants *identity.TenantResolver,
	avail *booking.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		tenants: tenants,
		avail:   avail,
	}
}

////////////////////////////////////////////////////////
// TENANT CARD
////////////////////////////////////////////////////////

func (h *PublicHandler) GetTenant(c *gin.Context) {
	tenant, err := h.tenants.Resolve(c.Request.Context(), middleware.TenantDomainFrom(c))
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": gin.H{
			"id":     tenant.ID,
			"name":   tenant.FullName,
			"domain": tenant.Domain,
			"phone":  tenant.Phone,
		},
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (same use case the private surface runs)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	if _, err := h.tenants.Resolve(c.Request.Context(), middleware.TenantDomainFrom(c)); err != nil {
		httperr.Map(c, err)
		return
	}

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
	})
	if err != nil {
		httperr.Map(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  c.Query("date"),
		"slots": slots,
	})
}
