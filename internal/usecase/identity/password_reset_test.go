package identity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/credential"
	usecase "github.com/clinicdesk/clinic-scheduler/internal/usecase/identity"
)

type resetFixture struct {
	request *usecase.RequestPasswordReset
	reset   *usecase.ResetPassword
	repo    *fakeUserRepo
	creds   *credential.Store
	mail    *fakeMailer
}

func newResetFixture(mailFails bool) resetFixture {
	repo := newFakeUserRepo()
	creds := credential.NewStore("pepper", bcrypt.MinCost)
	tenants := usecase.NewTenantResolver(repo, nil)
	mail := &fakeMailer{fail: mailFails}
	return resetFixture{
		request: usecase.NewRequestPasswordReset(repo, creds, tenants, mail, newTestDispatcher()),
		reset:   usecase.NewResetPassword(repo, creds, newTestDispatcher()),
		repo:    repo,
		creds:   creds,
		mail:    mail,
	}
}

// tokenFromMail pulls the plaintext token out of the reset mail body.
func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	start := strings.Index(body, "<b>")
	end := strings.Index(body, "</b>")
	if start < 0 || end <= start+3 {
		t.Fatalf("mail body carries no token: %q", body)
	}
	return body[start+3 : end]
}

func TestPasswordResetRoundTrip(t *testing.T) {
	fx := newResetFixture(false)
	tenant := seedTenant(t, fx.repo, "nordclinic")
	user := seedClient(t, fx.repo, fx.creds, "jon@example.com", "old-pass", tenant.ID)

	err := fx.request.Execute(context.Background(), usecase.RequestPasswordResetInput{
		Email:        "jon@example.com",
		Role:         "client",
		TenantDomain: "nordclinic",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if fx.mail.count() != 1 {
		t.Fatalf("sent %d mails, want 1", fx.mail.count())
	}

	token := tokenFromMail(t, fx.mail.last().Body)
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(token))
	}

	stored, err := fx.repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if stored.ResetTokenHash == nil || *stored.ResetTokenHash == token {
		t.Fatal("plaintext token must never be stored")
	}

	err = fx.reset.Execute(context.Background(), usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "new-pass",
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	stored, err = fx.repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if !fx.creds.Verify(*stored.PasswordHash, "new-pass") {
		t.Error("new password does not verify")
	}
	if fx.creds.Verify(*stored.PasswordHash, "old-pass") {
		t.Error("old password still verifies")
	}
	if stored.ResetTokenHash != nil || stored.ResetTokenExpiry != nil {
		t.Error("token must be cleared after redemption")
	}

	// Single use: replaying the same token finds nothing.
	err = fx.reset.Execute(context.Background(), usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "another-pass",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("replay: expected not found, got %v", err)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	fx := newResetFixture(false)
	tenant := seedTenant(t, fx.repo, "nordclinic")
	user := seedClient(t, fx.repo, fx.creds, "jon@example.com", "old-pass", tenant.ID)

	err := fx.request.Execute(context.Background(), usecase.RequestPasswordResetInput{
		Email:        "jon@example.com",
		Role:         "client",
		TenantDomain: "nordclinic",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	token := tokenFromMail(t, fx.mail.last().Body)

	stored, err := fx.repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	past := time.Now().Add(-time.Minute)
	stored.ResetTokenExpiry = &past
	if err := fx.repo.UpdateUser(context.Background(), stored); err != nil {
		t.Fatalf("expiring token: %v", err)
	}

	err = fx.reset.Execute(context.Background(), usecase.ResetPasswordInput{
		Token:       token,
		NewPassword: "new-pass",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for expired token, got %v", err)
	}
}

func TestPasswordResetMailFailureClearsToken(t *testing.T) {
	fx := newResetFixture(true)
	tenant := seedTenant(t, fx.repo, "nordclinic")
	user := seedClient(t, fx.repo, fx.creds, "jon@example.com", "old-pass", tenant.ID)

	err := fx.request.Execute(context.Background(), usecase.RequestPasswordResetInput{
		Email:        "jon@example.com",
		Role:         "client",
		TenantDomain: "nordclinic",
	})
	if !apperr.IsKind(err, apperr.KindEmailDelivery) {
		t.Fatalf("expected email delivery error, got %v", err)
	}

	stored, err := fx.repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reloading user: %v", err)
	}
	if stored.ResetTokenHash != nil || stored.ResetTokenExpiry != nil {
		t.Error("undelivered token must not stay redeemable")
	}
}

func TestPasswordResetUnknownEmailStaysSilent(t *testing.T) {
	fx := newResetFixture(false)
	seedTenant(t, fx.repo, "nordclinic")

	err := fx.request.Execute(context.Background(), usecase.RequestPasswordResetInput{
		Email:        "nobody@example.com",
		Role:         "client",
		TenantDomain: "nordclinic",
	})
	if err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if fx.mail.count() != 0 {
		t.Errorf("sent %d mails for unknown account, want 0", fx.mail.count())
	}
}

func TestPasswordResetRejectsMissingFields(t *testing.T) {
	fx := newResetFixture(false)

	err := fx.reset.Execute(context.Background(), usecase.ResetPasswordInput{
		Token: "deadbeef",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
