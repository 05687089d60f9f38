package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
)

// Map writes the HTTP rendition of a business error. The status mapping
// lives here and nowhere else; usecases only ever classify by kind.
func Map(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unclassified error reached the http boundary")
		Internal(c, "internal_error", "something went wrong")
		return
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound, apperr.KindTenantNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict, apperr.KindDuplicateEmail, apperr.KindDuplicateDomain:
		status = http.StatusConflict
	case apperr.KindEmailDelivery:
		status = http.StatusBadGateway
	}

	Write(c, status, ae.Code, ae.Message)
}
