package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// ExternalIdentityInput carries the claim set handed back by the identity
// provider after token exchange. The exchange itself happens elsewhere.
type ExternalIdentityInput struct {
	ExternalID string
	Email      string
	FullName   string

	// TenantDomain scopes email linking when present and is mandatory for
	// brand-new signups, which are created as clients of that tenant.
	TenantDomain string
}

// ======================================================
// USE CASE
// ======================================================

type ResolveExternalIdentity struct {
	repo    domain.Repository
	tenants *TenantResolver
	audit   *audit.Dispatcher
}

func NewResolveExternalIdentity(
	repo domain.Repository,
	tenants *TenantResolver,
	auditor *audit.Dispatcher,
) *ResolveExternalIdentity {
	return &ResolveExternalIdentity{
		repo:    repo,
		tenants: tenants,
		audit:   auditor,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute resolves an external login to an account in three steps: an
// existing binding wins, then an email match gets the identity linked,
// otherwise a new client account is created under the header's tenant.
func (uc *ResolveExternalIdentity) Execute(
	ctx context.Context,
	in ExternalIdentityInput,
) (*models.User, error) {

	if in.ExternalID == "" {
		return nil, apperr.Validation("external_id_required", "external identity id is missing")
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, apperr.Validation("email_required", "external identity carries no email claim")
	}

	// 1. Already linked.
	user, err := uc.repo.FindByExternalID(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	var tenant *models.User
	var tenantErr error
	if in.TenantDomain != "" {
		tenant, tenantErr = uc.tenants.Resolve(ctx, in.TenantDomain)
		if tenantErr != nil && !apperr.IsKind(tenantErr, apperr.KindTenantNotFound) {
			return nil, tenantErr
		}
	}

	// 2. Link to an existing account by email, preferring a client of the
	// request's tenant over the global match.
	if tenant != nil {
		scoped, err := uc.repo.FindClientUnderTenant(ctx, email, tenant.ID)
		if err != nil {
			return nil, err
		}
		if scoped != nil {
			return uc.link(ctx, scoped, in.ExternalID)
		}
	}

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.link(ctx, existing, in.ExternalID)
	}

	// 3. Brand-new signup: same tenant requirement as local client
	// registration.
	if tenant == nil {
		if tenantErr != nil {
			return nil, tenantErr
		}
		return nil, apperr.TenantNotFound("tenant_required", "external signup requires a tenant domain")
	}

	user = &models.User{
		ID:                       uuid.New(),
		FullName:                 in.FullName,
		Email:                    email,
		Status:                   domain.StatusActive,
		Role:                     string(domain.RoleClient),
		OwningTenantID:           &tenant.ID,
		ExternalIdentityID:       &in.ExternalID,
		ExternalIdentityProvider: domain.ProviderExternal,
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: &tenant.ID,
		ActorID:  &user.ID,
		Action:   "user_registered_external",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return user, nil
}

// link binds the external identity to an existing account. The password,
// if any, stays; the account becomes local+external.
func (uc *ResolveExternalIdentity) link(
	ctx context.Context,
	user *models.User,
	externalID string,
) (*models.User, error) {

	user.ExternalIdentityID = &externalID
	user.ExternalIdentityProvider = domain.ProviderExternal

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: auditTenant(user),
		ActorID:  &user.ID,
		Action:   "external_identity_linked",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return user, nil
}
