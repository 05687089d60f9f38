package middleware

import "github.com/gin-gonic/gin"

const (
	// TenantHeader names the subdomain a request acts under. Client
	// registration, client login and external-identity signups need it;
	// everything else ignores it.
	TenantHeader = "X-Tenant-Domain"

	ContextTenantDomain = "tenantDomain"
)

// TenantDomain copies the tenant header into the context. It never aborts;
// whether a tenant is required is the operation's decision.
func TenantDomain() gin.HandlerFunc {
	return func(c *gin.Context) {
		if dom := c.GetHeader(TenantHeader); dom != "" {
			c.Set(ContextTenantDomain, dom)
		}
		c.Next()
	}
}

// TenantDomainFrom reads the header value stored by TenantDomain, empty
// when the request carried none.
func TenantDomainFrom(c *gin.Context) string {
	if v, ok := c.Get(ContextTenantDomain); ok {
		if dom, ok := v.(string); ok {
			return dom
		}
	}
	return ""
}
