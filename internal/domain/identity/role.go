package identity

import "github.com/clinicdesk/clinic-scheduler/internal/apperr"

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleCustomerAdmin Role = "customeradmin"
	RoleClient        Role = "client"
)

// ParseRole narrows a raw string to one of the three known roles. Creation
// and authentication branch exhaustively on the result, so an unknown role
// is rejected here and never reaches a default case downstream.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdministrator, RoleCustomerAdmin, RoleClient:
		return Role(raw), nil
	}
	return "", apperr.Validation("invalid_role", "role must be administrator, customeradmin or client")
}

// ===============================
// Account status
// ===============================

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// ===============================
// Auth binding
// ===============================

// ProviderLocal means the account authenticates by password only.
// ProviderExternal means an external identity is bound; once linked the
// binding is never removed, a previously local account keeps its password.
const (
	ProviderLocal    = "local"
	ProviderExternal = "external"
)
