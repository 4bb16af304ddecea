package domain

import "time"

// Role enumerates access levels.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
	RoleTenant     Role = "TENANT"
)

// ValidRole reports whether r is a defined role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleTenant:
		return true
	}
	return false
}

// User is the domain model for all callers: tenants report tickets,
// technicians work them, admins manage everything.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
