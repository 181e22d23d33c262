package session

import "strings"

// Role es el rol de un usuario del POS.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleCashier   Role = "cashier"
	RoleSaaSAdmin Role = "saas_admin"
	RoleCustomer  Role = "customer"
)

// Roles lista los roles conocidos.
var Roles = []Role{RoleAdmin, RoleManager, RoleCashier, RoleSaaSAdmin, RoleCustomer}

// StaffRoles son los roles con acceso al dashboard.
var StaffRoles = []Role{RoleAdmin, RoleManager, RoleCashier, RoleSaaSAdmin}

// ParseRole normaliza s ("Saas Admin", "saas-admin", "ADMIN") a un Role conocido.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }
