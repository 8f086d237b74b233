package models

import (
	"time"

	"github.com/google/uuid"
)

// MaturityState is the trust state of a tenant. Transitions are monotonic:
// bootstrap -> mature, never back.
type MaturityState string

const (
	MaturityBootstrap MaturityState = "bootstrap"
	MaturityMature    MaturityState = "mature"
)

func (s MaturityState) Valid() bool {
	return s == MaturityBootstrap || s == MaturityMature
}

const (
	// MaxAgeDaysThreshold bounds the age-based promotion threshold.
	MaxAgeDaysThreshold = 365

	DefaultAgeDaysThreshold = 30
	DefaultUserThreshold    = 5
	DefaultAdminThreshold   = 2
)

type Tenant struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	Domain           string        `json:"domain" db:"domain"`
	MaturityState    MaturityState `json:"maturity_state" db:"maturity_state"`
	AdminCount       int           `json:"admin_count" db:"admin_count"`
	StewardCount     int           `json:"steward_count" db:"steward_count"`
	AgeDaysThreshold int           `json:"age_days_threshold" db:"age_days_threshold"`
	UserThreshold    int           `json:"user_threshold" db:"user_threshold"`
	AdminThreshold   int           `json:"admin_threshold" db:"admin_threshold"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

func (t *Tenant) IsMature() bool {
	return t.MaturityState == MaturityMature
}

// AgeDays is the whole number of days since the tenant was created.
func (t *Tenant) AgeDays(now time.Time) int {
	if now.Before(t.CreatedAt) {
		return 0
	}
	return int(now.Sub(t.CreatedAt).Hours() / 24)
}
