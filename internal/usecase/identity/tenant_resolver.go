package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduler/internal/apperr"
	"github.com/clinicdesk/clinic-scheduler/internal/cache"
	domain "github.com/clinicdesk/clinic-scheduler/internal/domain/identity"
	"github.com/clinicdesk/clinic-scheduler/internal/models"
	"github.com/clinicdesk/clinic-scheduler/internal/validators"
)

const tenantCacheTTL = 5 * time.Minute

// TenantResolver maps a subdomain header to the customeradmin owning it.
// Resolution happens on every client registration and login, so the id is
// cached; the cache may be nil, which turns every call into a lookup.
type TenantResolver struct {
	repo  domain.Repository
	cache cache.Cache
}

func NewTenantResolver(
	repo domain.Repository,
	c cache.Cache,
) *TenantResolver {
	return &TenantResolver{
		repo:  repo,
		cache: c,
	}
}

func (t *TenantResolver) Resolve(
	ctx context.Context,
	rawDomain string,
) (*models.User, error) {

	dom := validators.NormalizeSubdomain(rawDomain)
	if !validators.IsSubdomainValid(dom) {
		return nil, apperr.TenantNotFound("tenant_not_found", "no tenant registered for this domain")
	}

	if t.cache != nil {
		if cached, err := t.cache.Get(ctx, cache.TenantKey(dom)); err == nil {
			if id, err := uuid.ParseBytes(cached); err == nil {
				tenant, err := t.repo.GetUserByID(ctx, id)
				if err == nil && tenant.Role == string(domain.RoleCustomerAdmin) {
					return tenant, nil
				}
				// Stale entry: the tenant changed or is gone.
				_ = t.cache.Delete(ctx, cache.TenantKey(dom))
			}
		}
	}

	tenant, err := t.repo.FindTenantByDomain(ctx, dom)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperr.TenantNotFound("tenant_not_found", "no tenant registered for this domain")
	}

	if t.cache != nil {
		_ = t.cache.Set(ctx, cache.TenantKey(dom), []byte(tenant.ID.String()), tenantCacheTTL)
	}

	return tenant, nil
}

// Invalidate drops the cached mapping for a domain, eg. after the owning
// account is deleted.
func (t *TenantResolver) Invalidate(ctx context.Context, rawDomain string) {
	if t.cache == nil {
		return
	}
	_ = t.cache.Delete(ctx, cache.TenantKey(validators.NormalizeSubdomain(rawDomain)))
}
