package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/middleware"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// --------------------------------------------------
// Request parsing
// --------------------------------------------------

// parseOptionalDate turns an optional YYYY-MM-DD field into a *time.Time,
// nil when the field was omitted.
func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// uuidParam reads a :name path segment as a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery reads a query parameter as a UUID pointer. Absent is
// fine (nil, true); a malformed value is not.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// --------------------------------------------------
// Session context
// --------------------------------------------------

func actorID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextUserID).(uuid.UUID)
}

func actorRole(c *gin.Context) string {
	return c.MustGet(middleware.ContextUserRole).(string)
}

// --------------------------------------------------
// Responses
// --------------------------------------------------

// userJSON is the account snapshot identity endpoints answer with.
func userJSON(u *models.User) gin.H {
	out := gin.H{
		"id":        u.ID,
		"full_name": u.FullName,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"status":    u.Status,
	}
	if u.Birthday != nil {
		out["birthday"] = u.Birthday.Format("2006-01-02")
	}
	if u.Domain != "" {
		out["domain"] = u.Domain
	}
	if u.OwningTenantID != nil {
		out["owning_tenant_id"] = u.OwningTenantID
	}
	return out
}
