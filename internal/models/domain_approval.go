package models

import "time"

// DomainApprovalStatus gates whether an organization domain may be served.
type DomainApprovalStatus string

const (
	DomainPending  DomainApprovalStatus = "pending"
	DomainApproved DomainApprovalStatus = "approved"
	DomainRejected DomainApprovalStatus = "rejected"
	// DomainUnknown marks domains provisioned before the approval ledger
	// existed. They are served permissively.
	DomainUnknown DomainApprovalStatus = "unknown"
)

func (s DomainApprovalStatus) Valid() bool {
	switch s {
	case DomainPending, DomainApproved, DomainRejected, DomainUnknown:
		return true
	}
	return false
}

type DomainApproval struct {
	Domain    string               `json:"domain" db:"domain"`
	Status    DomainApprovalStatus `json:"status" db:"status"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" db:"updated_at"`
}
