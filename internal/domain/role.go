// Package domain provides definitions of all entities and value objects.
package domain

import "errors"

// ErrInvalidRole indicates that the given role value is not recognized.
var ErrInvalidRole = errors.New("invalid role")

// Constants for all recognized role values.
const (
	RoleGuardian  = "GUARDIAN"
	RoleDependent = "DEPENDENT"
	RoleAdmin     = "ADMIN"
)

var validRoles = []string{
	RoleGuardian,
	RoleDependent,
	RoleAdmin,
}

// IsValidRole returns true if the value is a recognized role.
func IsValidRole(value string) bool {
	for _, r := range validRoles {
		if r == value {
			return true
		}
	}

	return false
}

// Role is an immutable value object tagging a user's capability.
type Role struct {
	value string
}

// NewRole constructs a Role from its string value.
func NewRole(value string) (Role, error) {
	if !IsValidRole(value) {
		return Role{}, ErrInvalidRole
	}

	return Role{value: value}, nil
}

// String returns the role's string value.
func (r Role) String() string {
	return r.value
}

// Equal reports whether two roles hold the same value.
func (r Role) Equal(other Role) bool {
	return r.value == other.value
}

// IsGuardian returns true for the GUARDIAN role.
func (r Role) IsGuardian() bool {
	return r.value == RoleGuardian
}

// IsDependent returns true for the DEPENDENT role.
func (r Role) IsDependent() bool {
	return r.value == RoleDependent
}

// IsAdmin returns true for the ADMIN role.
func (r Role) IsAdmin() bool {
	return r.value == RoleAdmin
}
