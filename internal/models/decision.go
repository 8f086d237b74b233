package models

import (
	"time"

	"github.com/google/uuid"
)

// DecisionStatus is the lifecycle state of an architectural decision record.
type DecisionStatus string

const (
	DecisionDraft      DecisionStatus = "draft"
	DecisionAccepted   DecisionStatus = "accepted"
	DecisionSuperseded DecisionStatus = "superseded"
)

func (s DecisionStatus) Valid() bool {
	switch s {
	case DecisionDraft, DecisionAccepted, DecisionSuperseded:
		return true
	}
	return false
}

// Decision is an architectural decision record. The full editing surface
// lives elsewhere; this service only needs the tenant-scoped record.
type Decision struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	TenantID      uuid.UUID      `json:"tenant_id" db:"tenant_id"`
	Title         string         `json:"title" db:"title"`
	Context       string         `json:"context" db:"context"`
	Outcome       string         `json:"outcome" db:"outcome"`
	Status        DecisionStatus `json:"status" db:"status"`
	AuthorID      uuid.UUID      `json:"author_id" db:"author_id"`
	AttachmentKey *string        `json:"attachment_key,omitempty" db:"attachment_key"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
