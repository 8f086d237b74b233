package models

import (
	"time"

	"github.com/google/uuid"
)

// GlobalRole is a member's role within its tenant.
type GlobalRole string

const (
	RoleUser    GlobalRole = "user"
	RoleSteward GlobalRole = "steward"
	RoleAdmin   GlobalRole = "admin"
	// RoleProvisionalAdmin is the first administrator of a bootstrap tenant.
	// It carries admin capabilities subject to settings restrictions and is
	// rewritten to RoleAdmin when the tenant matures.
	RoleProvisionalAdmin GlobalRole = "provisional_admin"
)

func (r GlobalRole) Valid() bool {
	switch r {
	case RoleUser, RoleSteward, RoleAdmin, RoleProvisionalAdmin:
		return true
	}
	return false
}

// HasAdminRights reports whether the role passes admin-gated checks.
// provisional_admin counts as admin here; settings restrictions are a
// separate, finer-grained check.
func (r GlobalRole) HasAdminRights() bool {
	return r == RoleAdmin || r == RoleProvisionalAdmin
}

// Elevated reports whether the role is anything above plain user.
func (r GlobalRole) Elevated() bool {
	return r != RoleUser
}

type Membership struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	TenantID   uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	GlobalRole GlobalRole `json:"global_role" db:"global_role"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
