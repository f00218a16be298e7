package domain

import "sort"

// RoleTag enumerates the actor classes known to the system.
type RoleTag string

const (
	RoleCompanyAdmin RoleTag = "COMPANY_ADMIN"
	RoleTechnician   RoleTag = "TECHNICIAN"
	RoleClientUser   RoleTag = "CLIENT_USER"
	RoleSystemOwner  RoleTag = "SYSTEM_OWNER"
)

// Capability is a named permission granted to a role.
type Capability string

const (
	CapComment        Capability = "comment"
	CapViewPrivate    Capability = "view_private"
	CapViewHistory    Capability = "view_history"
	CapIssueShareLink Capability = "issue_share_link"
	CapCrossTenant    Capability = "cross_tenant"
	CapMutateTicket   Capability = "mutate_ticket"
)

// roleCapabilities is the single source of truth for role-based permissions.
// Roles absent from this table have no capabilities (default deny).
var roleCapabilities = map[RoleTag]map[Capability]struct{}{
	RoleCompanyAdmin: capSet(CapComment, CapViewPrivate, CapViewHistory, CapIssueShareLink, CapMutateTicket),
	RoleTechnician:   capSet(CapComment, CapViewPrivate, CapViewHistory, CapMutateTicket),
	RoleClientUser:   capSet(CapComment, CapViewHistory),
	RoleSystemOwner:  capSet(CapComment, CapViewPrivate, CapViewHistory, CapIssueShareLink, CapCrossTenant, CapMutateTicket),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, capability := range caps {
		set[capability] = struct{}{}
	}
	return set
}

// Actor is the authenticated caller, scoped to one company.
type Actor struct {
	ID        string
	Role      RoleTag
	CompanyID string
}

// Can reports whether the actor's role grants the capability.
func (a Actor) Can(capability Capability) bool {
	caps, ok := roleCapabilities[a.Role]
	if !ok {
		return false
	}
	_, granted := caps[capability]
	return granted
}

// CanAccessCompany reports whether the actor may read data owned by companyID.
func (a Actor) CanAccessCompany(companyID string) bool {
	if a.Can(CapCrossTenant) {
		return true
	}
	return a.CompanyID == companyID
}

// CapabilitiesForRole returns the capabilities granted to a role, for UI
// consumption. Unknown roles yield an empty set; callers must still enforce
// permissions server-side on every operation.
func CapabilitiesForRole(role RoleTag) []Capability {
	caps, ok := roleCapabilities[role]
	if !ok {
		return []Capability{}
	}
	result := make([]Capability, 0, len(caps))
	for capability := range caps {
		result = append(result, capability)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// KnownRole reports whether the tag is one of the defined roles.
func KnownRole(role RoleTag) bool {
	_, ok := roleCapabilities[role]
	return ok
}
