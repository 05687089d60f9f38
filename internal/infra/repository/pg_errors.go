package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
)

// Constraint names created by db.Migrate. Write-time violations are
// re-classified here by name so callers see domain error kinds, never
// driver errors.
const (
	constraintTenantDomain       = "uniq_tenant_domain"
	constraintAdminEmailDomain   = "uniq_admin_email_domain"
	constraintClientEmailTenant  = "uniq_client_email_tenant"
	constraintAdministratorEmail = "uniq_administrator_email"
	constraintExternalIdentity   = "uniq_external_identity"
	constraintBookingOverlap     = "bookings_no_overlap"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintTenantDomain:
			return apperr.DuplicateDomain("domain_taken", "domain is already registered to another tenant")
		case constraintAdminEmailDomain, constraintClientEmailTenant, constraintAdministratorEmail:
			return apperr.DuplicateEmail("email_taken", "email is already registered")
		case constraintExternalIdentity:
			return apperr.DuplicateEmail("external_identity_taken", "external identity is already linked to an account")
		}
	case pgExclusionViolation:
		if pgErr.ConstraintName == constraintBookingOverlap {
			return apperr.Conflict("slot_taken", "the requested time slot is no longer available")
		}
	}

	return err
}
