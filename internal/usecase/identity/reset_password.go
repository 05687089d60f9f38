package identity

import (
	"context"
	"time"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
)

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

type ResetPassword struct {
	repo  domain.Repository
	creds *credential.Store
	audit *audit.Dispatcher
}

func NewResetPassword(
	repo domain.Repository,
	creds *credential.Store,
	auditor *audit.Dispatcher,
) *ResetPassword {
	return &ResetPassword{
		repo:  repo,
		creds: creds,
		audit: auditor,
	}
}

// Execute redeems a reset token. Rehash and token clearing land in one row
// update, so the token is single-use: a second redeem finds no digest.
func (uc *ResetPassword) Execute(
	ctx context.Context,
	in ResetPasswordInput,
) error {

	if in.Token == "" || in.NewPassword == "" {
		return apperr.Validation("missing_fields", "token and new password are required")
	}

	digest := credential.HashToken(in.Token)

	user, err := uc.repo.FindByResetDigest(ctx, digest, time.Now())
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("reset_token_invalid", "reset token is invalid or expired")
	}

	hash, err := uc.creds.Hash(in.NewPassword)
	if err != nil {
		return apperr.Validation("invalid_password", "password could not be processed")
	}

	user.PasswordHash = &hash
	user.ResetTokenHash = nil
	user.ResetTokenExpiry = nil

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: auditTenant(user),
		ActorID:  &user.ID,
		Action:   "password_reset",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}
