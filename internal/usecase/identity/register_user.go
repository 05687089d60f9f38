package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/mailer"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	"github.com/clinicdesk/clinic-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type RegisterUserInput struct {
	FullName string
	Email    string
	Phone    string
	Birthday *time.Time
	Password string

	Role string

	// Domain is the subdomain a new customeradmin claims.
	Domain string

	// TenantDomain is the request's tenant header; required for clients.
	TenantDomain string
}

// ======================================================
// USE CASE
// ======================================================

type RegisterUser struct {
	repo    domain.Repository
	creds   *credential.Store
	tenants *TenantResolver
	mail    mailer.Mailer
	audit   *audit.Dispatcher
}

func NewRegisterUser(
	repo domain.Repository,
	creds *credential.Store,
	tenants *TenantResolver,
	mail mailer.Mailer,
	auditor *audit.Dispatcher,
) *RegisterUser {
	return &RegisterUser{
		repo:    repo,
		creds:   creds,
		tenants: tenants,
		mail:    mail,
		audit:   auditor,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RegisterUser) Execute(
	ctx context.Context,
	in RegisterUserInput,
) (*models.User, error) {

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	if in.Password == "" {
		return nil, apperr.Validation("password_required", "local registration requires a password")
	}

	hash, err := uc.creds.Hash(in.Password)
	if err != nil {
		return nil, apperr.Validation("invalid_password", "password could not be processed")
	}

	user := &models.User{
		ID:                       uuid.New(),
		FullName:                 strings.TrimSpace(in.FullName),
		Email:                    normalizeEmail(in.Email),
		Phone:                    strings.TrimSpace(in.Phone),
		Birthday:                 in.Birthday,
		PasswordHash:             &hash,
		Status:                   domain.StatusActive,
		Role:                     string(role),
		ExternalIdentityProvider: domain.ProviderLocal,
	}

	switch role {
	case domain.RoleCustomerAdmin:
		dom := validators.NormalizeSubdomain(in.Domain)
		if !validators.IsSubdomainValid(dom) {
			return nil, apperr.Validation("invalid_domain", "domain must be a lowercase subdomain label")
		}

		// Pre-check for a friendlier error; the partial unique index is
		// the authoritative guard.
		existing, err := uc.repo.FindTenantByDomain(ctx, dom)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.DuplicateDomain("domain_taken", "domain is already registered to another tenant")
		}

		user.Domain = dom

	case domain.RoleClient:
		tenant, err := uc.tenants.Resolve(ctx, in.TenantDomain)
		if err != nil {
			return nil, err
		}
		user.OwningTenantID = &tenant.ID

	case domain.RoleAdministrator:
		// No tenant scoping.
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	// Welcome mail is best-effort; registration already committed.
	if err := uc.mail.Send(
		user.Email,
		"Welcome to ClinicDesk",
		"<p>Hi "+user.FullName+",</p><p>your account is ready.</p>",
	); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("welcome mail delivery failed")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: auditTenant(user),
		ActorID:  &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// auditTenant picks the tenant an identity event belongs to: the owning
// tenant for clients, the account itself for customeradmins.
func auditTenant(user *models.User) *uuid.UUID {
	switch user.Role {
	case string(domain.RoleClient):
		return user.OwningTenantID
	case string(domain.RoleCustomerAdmin):
		return &user.ID
	}
	return nil
}
