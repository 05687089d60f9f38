package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// --------------------------------------------------
// Users (write)
// --------------------------------------------------

func (r *UserGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return translateWriteError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserGormRepository) UpdateUser(
	ctx context.Context,
	user *models.User,
) error {
	return translateWriteError(r.db.WithContext(ctx).Save(user).Error)
}

func (r *UserGormRepository) DeleteUser(
	ctx context.Context,
	user *models.User,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A departing tenant releases its clients instead of deleting them,
		// so their booking history survives.
		if user.Role == string(identity.RoleCustomerAdmin) {
			if err := tx.Model(&models.User{}).
				Where("owning_tenant_id = ?", user.ID).
				Update("owning_tenant_id", nil).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", user.ID).Delete(&models.User{}).Error
	})
}

// --------------------------------------------------
// Users (read)
// --------------------------------------------------

func (r *UserGormRepository) GetUserByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user_not_found", "user does not exist")
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindTenantByDomain(
	ctx context.Context,
	domain string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND domain = ?", identity.RoleCustomerAdmin, domain).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindClientUnderTenant(
	ctx context.Context,
	email string,
	tenantID uuid.UUID,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where(
			"role = ? AND email = ? AND owning_tenant_id = ?",
			identity.RoleClient, email, tenantID,
		).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindAdminByEmailAndDomain(
	ctx context.Context,
	email string,
	domain string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where(
			"role = ? AND email = ? AND domain = ?",
			identity.RoleCustomerAdmin, email, domain,
		).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindByEmailAndRole(
	ctx context.Context,
	email string,
	role identity.Role,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND email = ?", role, email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	// Emails repeat across tenants; take the oldest account so repeated
	// lookups stay deterministic.
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindByExternalID(
	ctx context.Context,
	externalID string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("external_identity_id = ?", externalID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) FindByResetDigest(
	ctx context.Context,
	digest string,
	now time.Time,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", digest, now).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserGormRepository) ListClientsUnderTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	query string,
) ([]models.User, error) {

	q := r.db.WithContext(ctx).
		Where("role = ? AND owning_tenant_id = ?", identity.RoleClient, tenantID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}

	var users []models.User
	if err := q.Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Compile-time check
var _ identity.Repository = (*UserGormRepository)(nil)
