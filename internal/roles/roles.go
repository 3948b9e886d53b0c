package roles

// Role is one of the application roles an account may hold. An account holds
// a set of roles; (user_id, role) pairs are unique in storage.
type Role string

const (
	Buyer      Role = "buyer"
	Vendor     Role = "vendor"
	Admin      Role = "admin"
	SuperAdmin Role = "super_admin"
)

// All lists every assignable role.
func All() []Role {
	return []Role{Buyer, Vendor, Admin, SuperAdmin}
}

// Parse validates a raw role string.
func Parse(s string) (Role, bool) {
	switch Role(s) {
	case Buyer, Vendor, Admin, SuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Has reports whether the role set contains r.
func Has(set []Role, r Role) bool {
	for _, have := range set {
		if have == r {
			return true
		}
	}
	return false
}

// ForAccountType maps a self-declared account type to the initial role
// granted at signup.
func ForAccountType(accountType string) Role {
	if accountType == "vendor" {
		return Vendor
	}
	return Buyer
}

// CanManage reports whether an actor holding actorRoles may grant or revoke
// target. Only a super_admin may touch the super_admin role; everything else
// is open to admins (route-level guards decide who reaches this code).
func CanManage(actorRoles []Role, target Role) bool {
	if target == SuperAdmin {
		return Has(actorRoles, SuperAdmin)
	}
	return true
}
