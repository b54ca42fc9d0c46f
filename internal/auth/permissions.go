package auth

import "libraryLoanManagement/models"

// Permission names. Confirm-return is a dedicated permission rather than
// piggybacking on users:create.
const (
	PermCreateUser    = "users:create"
	PermCreateLoan    = "loans:create"
	PermConfirmReturn = "loans:confirm-return"
	PermViewAllLoans  = "loans:view-all"
)

var rolePermissions = map[string]map[string]struct{}{
	models.RoleSuperAdmin: permSet(PermCreateUser, PermCreateLoan, PermConfirmReturn, PermViewAllLoans),
	models.RoleAdmin:      permSet(PermCreateUser, PermCreateLoan, PermConfirmReturn, PermViewAllLoans),
	models.RoleMember:     permSet(),
}

func permSet(perms ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// RoleCan reports whether the given role holds the permission.
func RoleCan(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}
