package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/audit"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
)

type DeleteAccount struct {
	repo    domain.Repository
	tenants *TenantResolver
	audit   *audit.Dispatcher
}

func NewDeleteAccount(
	repo domain.Repository,
	tenants *TenantResolver,
	auditor *audit.Dispatcher,
) *DeleteAccount {
	return &DeleteAccount{
		repo:    repo,
		tenants: tenants,
		audit:   auditor,
	}
}

// Execute removes an account. A customeradmin's clients are released, not
// deleted, and its subdomain mapping is dropped from the cache.
func (uc *DeleteAccount) Execute(
	ctx context.Context,
	userID uuid.UUID,
) error {

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteUser(ctx, user); err != nil {
		return err
	}

	if user.Role == string(domain.RoleCustomerAdmin) {
		uc.tenants.Invalidate(ctx, user.Domain)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: auditTenant(user),
		ActorID:  &user.ID,
		Action:   "account_deleted",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return nil
}
