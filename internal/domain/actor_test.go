package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role    RoleTag
		granted []Capability
		denied  []Capability
	}{
		{
			role:    RoleCompanyAdmin,
			granted: []Capability{CapComment, CapViewPrivate, CapViewHistory, CapIssueShareLink, CapMutateTicket},
			denied:  []Capability{CapCrossTenant},
		},
		{
			role:    RoleTechnician,
			granted: []Capability{CapComment, CapViewPrivate, CapViewHistory, CapMutateTicket},
			denied:  []Capability{CapIssueShareLink, CapCrossTenant},
		},
		{
			role:    RoleClientUser,
			granted: []Capability{CapComment, CapViewHistory},
			denied:  []Capability{CapViewPrivate, CapIssueShareLink, CapCrossTenant, CapMutateTicket},
		},
		{
			role:    RoleSystemOwner,
			granted: []Capability{CapComment, CapViewPrivate, CapViewHistory, CapIssueShareLink, CapCrossTenant, CapMutateTicket},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			actor := Actor{ID: "user-1", Role: tc.role, CompanyID: "company-1"}
			for _, capability := range tc.granted {
				require.True(t, actor.Can(capability), "expected %s to have %s", tc.role, capability)
			}
			for _, capability := range tc.denied {
				require.False(t, actor.Can(capability), "expected %s to lack %s", tc.role, capability)
			}
		})
	}
}

func TestUnknownRoleDefaultDeny(t *testing.T) {
	actor := Actor{ID: "user-1", Role: RoleTag("INTERN"), CompanyID: "company-1"}
	for _, capability := range []Capability{CapComment, CapViewPrivate, CapViewHistory, CapIssueShareLink, CapCrossTenant, CapMutateTicket} {
		require.False(t, actor.Can(capability))
	}
	require.False(t, actor.CanAccessCompany("company-1") && actor.Can(CapComment))
}

func TestCanAccessCompany(t *testing.T) {
	admin := Actor{ID: "user-1", Role: RoleCompanyAdmin, CompanyID: "company-1"}
	require.True(t, admin.CanAccessCompany("company-1"))
	require.False(t, admin.CanAccessCompany("company-2"))

	owner := Actor{ID: "user-2", Role: RoleSystemOwner, CompanyID: "company-1"}
	require.True(t, owner.CanAccessCompany("company-1"))
	require.True(t, owner.CanAccessCompany("company-2"))
}

func TestCapabilitiesForRoleSortedAndStable(t *testing.T) {
	caps := CapabilitiesForRole(RoleTechnician)
	require.Equal(t, []Capability{CapComment, CapMutateTicket, CapViewHistory, CapViewPrivate}, caps)

	require.Empty(t, CapabilitiesForRole(RoleTag("INTERN")))
	require.NotNil(t, CapabilitiesForRole(RoleTag("INTERN")))
}

func TestKnownRole(t *testing.T) {
	require.True(t, KnownRole(RoleCompanyAdmin))
	require.True(t, KnownRole(RoleSystemOwner))
	require.False(t, KnownRole(RoleTag("company_admin")))
	require.False(t, KnownRole(RoleTag("")))
}
