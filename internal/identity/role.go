package identity

import "fmt"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
	RoleDoctor     Role = "doctor"
	RolePatient    Role = "patient"
)

// Capability names an action class checked at the service boundary.
type Capability string

const (
	CapManageUsers    Capability = "manage_users"
	CapManageSettings Capability = "manage_settings"
	CapBackOffice     Capability = "back_office"
)

var grants = map[Role][]Capability{
	RoleSuperAdmin: {CapManageUsers, CapManageSettings, CapBackOffice},
	RoleAdmin:      {CapManageUsers, CapManageSettings, CapBackOffice},
	RoleStaff:      {CapBackOffice},
	RoleDoctor:     {CapBackOffice},
	RolePatient:    nil,
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := grants[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Can(c Capability) bool {
	for _, g := range grants[r] {
		if g == c {
			return true
		}
	}
	return false
}

// Roles lists every role, most privileged first.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleStaff, RoleDoctor, RolePatient}
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID    string
	Email     string
	Role      Role
	SessionID string
}

// System is the actor used by seeders and background workers.
var System = Actor{UserID: "system", Role: RoleSuperAdmin}

func (a Actor) Authenticated() bool { return a.UserID != "" }

// Require returns ErrUnauthenticated or ErrForbidden unless the actor holds c.
func (a Actor) Require(c Capability) error {
	if !a.Authenticated() {
		return ErrUnauthenticated
	}
	if !a.Role.Can(c) {
		return ErrForbidden
	}
	return nil
}
