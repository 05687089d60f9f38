package identity

import (
	"context"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/metrics"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type AuthenticateInput struct {
	Email    string
	Password string
	Role     string

	// TenantDomain scopes the lookup for clients; ignored for other roles.
	TenantDomain string
}

type Authenticate struct {
	repo    domain.Repository
	creds   *credential.Store
	tenants *TenantResolver
}

func NewAuthenticate(
	repo domain.Repository,
	creds *credential.Store,
	tenants *TenantResolver,
) *Authenticate {
	return &Authenticate{
		repo:    repo,
		creds:   creds,
		tenants: tenants,
	}
}

// Execute verifies credentials and returns the account. An unknown tenant
// fails fast with its own error kind; every other failure collapses into
// one indistinguishable unauthorized error.
func (uc *Authenticate) Execute(
	ctx context.Context,
	in AuthenticateInput,
) (*models.User, error) {

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)

	var user *models.User
	switch role {
	case domain.RoleClient:
		tenant, err := uc.tenants.Resolve(ctx, in.TenantDomain)
		if err != nil {
			if apperr.IsKind(err, apperr.KindTenantNotFound) {
				metrics.AuthFailures.Inc()
			}
			return nil, err
		}

		user, err = uc.repo.FindClientUnderTenant(ctx, email, tenant.ID)
		if err != nil {
			return nil, err
		}

	default:
		user, err = uc.repo.FindByEmailAndRole(ctx, email, role)
		if err != nil {
			return nil, err
		}
	}

	if user == nil ||
		user.Status != domain.StatusActive ||
		user.PasswordHash == nil ||
		!uc.creds.Verify(*user.PasswordHash, in.Password) {
		metrics.AuthFailures.Inc()
		return nil, apperr.Unauthorized("invalid_credentials", "email or password is incorrect")
	}

	return user, nil
}
