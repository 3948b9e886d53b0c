// Package authz holds the route-protection decision logic. The decision is a
// pure function of the session state and the route's declared requirement so
// it can be tested without any HTTP machinery.
package authz

import "github.com/omtii/marketplace/internal/roles"

// Decision is the outcome of evaluating a protected route.
type Decision int

const (
	// Wait means session state is still loading and no decision is made yet.
	Wait Decision = iota
	// RedirectLogin sends an unauthenticated caller to the login flow,
	// preserving the originally requested location.
	RedirectLogin
	// RedirectHome sends an authenticated but unauthorized caller to the
	// fallback view.
	RedirectHome
	// Allow renders the requested view.
	Allow
)

// State is the caller's current session snapshot.
type State struct {
	Loading       bool
	Authenticated bool
	Roles         []roles.Role
}

// Requirement is a route's declared protection.
type Requirement struct {
	RequireAuth bool
	Roles       []roles.Role
}

// Decide evaluates a requirement against session state.
//
// Order matters: loading short-circuits everything, authentication is checked
// before roles, and super_admin bypasses any role requirement.
func Decide(s State, q Requirement) Decision {
	if s.Loading {
		return Wait
	}

	if q.RequireAuth && !s.Authenticated {
		return RedirectLogin
	}

	if roles.Has(s.Roles, roles.SuperAdmin) {
		return Allow
	}

	if len(q.Roles) > 0 {
		for _, required := range q.Roles {
			if roles.Has(s.Roles, required) {
				return Allow
			}
		}
		return RedirectHome
	}

	return Allow
}
