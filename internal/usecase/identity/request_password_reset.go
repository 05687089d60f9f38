package identity

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/mailer"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type RequestPasswordResetInput struct {
	Email        string
	Role         string
	TenantDomain string
}

type RequestPasswordReset struct {
	repo    domain.Repository
	creds   *credential.Store
	tenants *TenantResolver
	mail    mailer.Mailer
	audit   *audit.Dispatcher
}

func NewRequestPasswordReset(
	repo domain.Repository,
	creds *credential.Store,
	tenants *TenantResolver,
	mail mailer.Mailer,
	auditor *audit.Dispatcher,
) *RequestPasswordReset {
	return &RequestPasswordReset{
		repo:    repo,
		creds:   creds,
		tenants: tenants,
		mail:    mail,
		audit:   auditor,
	}
}

// Execute issues a reset token and mails its plaintext. Only the digest is
// stored. When the mail cannot be delivered the token is cleared again, so
// an undeliverable token never stays redeemable. A missing account is not
// reported to the caller.
func (uc *RequestPasswordReset) Execute(
	ctx context.Context,
	in RequestPasswordResetInput,
) error {

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return err
	}

	email := normalizeEmail(in.Email)

	var user *models.User
	switch role {
	case domain.RoleClient:
		tenant, err := uc.tenants.Resolve(ctx, in.TenantDomain)
		if err != nil {
			return err
		}
		user, err = uc.repo.FindClientUnderTenant(ctx, email, tenant.ID)
		if err != nil {
			return err
		}
	default:
		user, err = uc.repo.FindByEmailAndRole(ctx, email, role)
		if err != nil {
			return err
		}
	}

	if user == nil {
		return nil
	}

	plaintext, digest, expiry, err := uc.creds.NewResetToken(time.Now())
	if err != nil {
		return err
	}

	user.ResetTokenHash = &digest
	user.ResetTokenExpiry = &expiry
	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return err
	}

	body := "<p>Hi " + user.FullName + ",</p>" +
		"<p>use this code to reset your password within the next 15 minutes:</p>" +
		"<p><b>" + plaintext + "</b></p>"

	if err := uc.mail.Send(user.Email, "Password reset", body); err != nil {
		// The user never saw the token; clear it so it cannot linger.
		user.ResetTokenHash = nil
		user.ResetTokenExpiry = nil
		if clearErr := uc.repo.UpdateUser(ctx, user); clearErr != nil {
			log.Error().Err(clearErr).Str("email", user.Email).Msg("failed to clear undelivered reset token")
		}
		return apperr.EmailDelivery("reset_email_failed", "could not deliver the reset email")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: auditTenant(user),
		ActorID:  &user.ID,
		Action:   "password_reset_requested",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}
