package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleRequestStatus is the lifecycle state of a role elevation request.
type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestApproved RoleRequestStatus = "approved"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

func (s RoleRequestStatus) Valid() bool {
	switch s {
	case RoleRequestPending, RoleRequestApproved, RoleRequestRejected:
		return true
	}
	return false
}

// Requestable reports whether a role may be asked for through the role
// request workflow. Only steward and admin are requestable.
func Requestable(role GlobalRole) bool {
	return role == RoleSteward || role == RoleAdmin
}

// RoleRequest is a member's request for an elevated role. Once resolved it
// is immutable and serves as an audit record.
type RoleRequest struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	TenantID      uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	RequestedRole GlobalRole        `json:"requested_role" db:"requested_role"`
	Reason        string            `json:"reason" db:"reason"`
	Status        RoleRequestStatus `json:"status" db:"status"`
	ResolvedBy    *uuid.UUID        `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt    *time.Time        `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}
