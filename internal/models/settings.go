package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthMethod selects how a tenant's members sign in.
type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "password"
	AuthMethodSSO      AuthMethod = "sso"
	AuthMethodPasskey  AuthMethod = "passkey"
)

func (m AuthMethod) Valid() bool {
	switch m {
	case AuthMethodPassword, AuthMethodSSO, AuthMethodPasskey:
		return true
	}
	return false
}

// TenantSettings holds per-tenant configuration. AuthMethod and
// SelfRegistration are restricted: they stay locked for a provisional admin
// until the tenant matures.
type TenantSettings struct {
	TenantID         uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	DisplayName      string     `json:"display_name" db:"display_name"`
	AuthMethod       AuthMethod `json:"auth_method" db:"auth_method"`
	SelfRegistration bool       `json:"self_registration" db:"self_registration"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
