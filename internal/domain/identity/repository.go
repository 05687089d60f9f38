package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type Repository interface {
	// -------- Users (write) --------
	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	UpdateUser(
		ctx context.Context,
		user *models.User,
	) error

	// DeleteUser removes the account. For a customeradmin the owning_tenant_id
	// of its clients is nulled in the same transaction, never cascaded.
	DeleteUser(
		ctx context.Context,
		user *models.User,
	) error

	// -------- Users (read) --------
	GetUserByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.User, error)

	FindTenantByDomain(
		ctx context.Context,
		domain string,
	) (*models.User, error)

	FindClientUnderTenant(
		ctx context.Context,
		email string,
		tenantID uuid.UUID,
	) (*models.User, error)

	FindAdminByEmailAndDomain(
		ctx context.Context,
		email string,
		domain string,
	) (*models.User, error)

	FindByEmailAndRole(
		ctx context.Context,
		email string,
		role Role,
	) (*models.User, error)

	FindByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	FindByExternalID(
		ctx context.Context,
		externalID string,
	) (*models.User, error)

	FindByResetDigest(
		ctx context.Context,
		digest string,
		now time.Time,
	) (*models.User, error)

	ListClientsUnderTenant(
		ctx context.Context,
		tenantID uuid.UUID,
		query string,
	) ([]models.User, error)
}
