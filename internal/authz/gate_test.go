package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omtii/marketplace/internal/roles"
)

func TestDecideIsDeterministic(t *testing.T) {
	s := State{Authenticated: true, Roles: []roles.Role{roles.Buyer}}
	q := Requirement{RequireAuth: true, Roles: []roles.Role{roles.Vendor}}

	first := Decide(s, q)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Decide(s, q))
	}
}

func TestDecideWaitsWhileLoading(t *testing.T) {
	q := Requirement{RequireAuth: true, Roles: []roles.Role{roles.Admin}}
	assert.Equal(t, Wait, Decide(State{Loading: true}, q))
	assert.Equal(t, Wait, Decide(State{Loading: true, Authenticated: true}, q))
}

func TestDecideRedirectsLoggedOutToLogin(t *testing.T) {
	s := State{Authenticated: false}
	assert.Equal(t, RedirectLogin, Decide(s, Requirement{RequireAuth: true}))

	// Routes without an auth requirement stay open.
	assert.Equal(t, Allow, Decide(s, Requirement{}))
}

func TestSuperAdminBypassesRoleChecks(t *testing.T) {
	// Even with an otherwise-empty role set, super_admin is allowed everywhere.
	s := State{Authenticated: true, Roles: []roles.Role{roles.SuperAdmin}}

	assert.Equal(t, Allow, Decide(s, Requirement{RequireAuth: true, Roles: []roles.Role{roles.Admin}}))
	assert.Equal(t, Allow, Decide(s, Requirement{RequireAuth: true, Roles: []roles.Role{roles.Vendor, roles.Buyer}}))
	assert.Equal(t, Allow, Decide(s, Requirement{RequireAuth: true}))
}

func TestBuyerDeniedVendorRoutes(t *testing.T) {
	s := State{Authenticated: true, Roles: []roles.Role{roles.Buyer}}

	q := Requirement{RequireAuth: true, Roles: []roles.Role{roles.Vendor, roles.Admin, roles.SuperAdmin}}
	assert.Equal(t, RedirectHome, Decide(s, q))

	// Same identity is allowed on routes with no role requirement.
	assert.Equal(t, Allow, Decide(s, Requirement{RequireAuth: true}))
}

func TestAnyMatchingRoleAllows(t *testing.T) {
	s := State{Authenticated: true, Roles: []roles.Role{roles.Buyer, roles.Vendor}}
	q := Requirement{RequireAuth: true, Roles: []roles.Role{roles.Vendor}}
	assert.Equal(t, Allow, Decide(s, q))
}
