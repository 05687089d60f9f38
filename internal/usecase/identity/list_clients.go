package identity

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type ListClients struct {
	repo domain.Repository
}

func NewListClients(repo domain.Repository) *ListClients {
	return &ListClients{repo: repo}
}

// Execute lists a tenant's clients, optionally filtered by a name or email
// fragment.
func (uc *ListClients) Execute(
	ctx context.Context,
	tenantID uuid.UUID,
	query string,
) ([]models.User, error) {
	return uc.repo.ListClientsUnderTenant(ctx, tenantID, query)
}
