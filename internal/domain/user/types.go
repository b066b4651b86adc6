package user

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"

	// RoleSystem is the scheduler's actor identity. It is never carried in a
	// token; NewRole rejects it on purpose.
	RoleSystem Role = "system"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
