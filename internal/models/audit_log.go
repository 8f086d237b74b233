package models

import (
	"time"

	"github.com/google/uuid"
)

// Governance audit actions.
const (
	AuditTenantPromoted    = "TENANT_PROMOTED"
	AuditTenantForced      = "TENANT_FORCE_PROMOTED"
	AuditThresholdsUpdated = "THRESHOLDS_UPDATED"
	AuditDomainApproval    = "DOMAIN_APPROVAL_CHANGED"
	AuditRequestSubmitted  = "ROLE_REQUEST_SUBMITTED"
	AuditRequestResolved   = "ROLE_REQUEST_RESOLVED"
)

// AuditLog is an immutable record of a governance action.
type AuditLog struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	TenantID  uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	Action    string         `json:"action" db:"action"`
	RecordID  string         `json:"record_id" db:"record_id"`
	Details   map[string]any `json:"details" db:"details"`
	ActorID   *uuid.UUID     `json:"actor_id,omitempty" db:"actor_id"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
