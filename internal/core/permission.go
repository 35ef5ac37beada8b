package core

import "strings"

// Capability is a single permission bit. Permissions are a typed set derived
// from the user's role at the storage boundary, never parsed ad hoc from
// opaque blobs.
type Capability uint

const (
	CapViewReports Capability = 1 << iota
	CapManageTransactions
	CapManageSales
	CapManagePurchases
	CapGenerateForecasts
	CapManageUsers
)

// CapabilitySet is a bitmask of capabilities.
type CapabilitySet uint

// NewCapabilitySet builds a set from individual capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Role names recognized by CapabilitiesForRole.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// CapabilitiesForRole maps a stored role to its capability set. Unknown roles
// are rejected so that a corrupt users row fails loudly at load time instead
// of silently granting or denying access per check.
func CapabilitiesForRole(role string) (CapabilitySet, error) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return NewCapabilitySet(CapViewReports, CapManageTransactions, CapManageSales,
			CapManagePurchases, CapGenerateForecasts, CapManageUsers), nil
	case RoleManager:
		return NewCapabilitySet(CapViewReports, CapManageTransactions, CapManageSales,
			CapManagePurchases, CapGenerateForecasts), nil
	case RoleViewer:
		return NewCapabilitySet(CapViewReports), nil
	default:
		return 0, Validationf("unknown role %q", role)
	}
}
