package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"adrboard/internal/caching"
	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
)

// EvalResult is the outcome of a maturity evaluation.
type EvalResult struct {
	Promote bool
	Reason  string
}

// Evaluate decides whether a tenant qualifies for promotion to mature.
// Any single corroboration suffices: a second administrator, an independent
// steward, or enough elapsed time for organic growth.
func Evaluate(tenant *models.Tenant, now time.Time) EvalResult {
	if tenant.IsMature() {
		return EvalResult{}
	}
	if tenant.AdminCount >= 2 {
		return EvalResult{Promote: true, Reason: "admin_count threshold met"}
	}
	if tenant.StewardCount >= 1 {
		return EvalResult{Promote: true, Reason: "steward_count threshold met"}
	}
	if tenant.AgeDays(now) >= tenant.AgeDaysThreshold {
		return EvalResult{Promote: true, Reason: "age threshold met"}
	}
	return EvalResult{}
}

// MaturityService owns the tenant maturity state machine. All writes to a
// tenant's counters and maturity state go through here, serialized per
// tenant.
type MaturityService interface {
	// Recalculate refreshes cached role counters from the membership store,
	// re-evaluates maturity and promotes when a threshold is met. Safe to
	// call opportunistically (e.g. on tenant read).
	Recalculate(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	// ForcePromote promotes regardless of thresholds. Idempotent.
	ForcePromote(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID) (*models.Tenant, error)
	UpdateThresholds(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID) (*models.Tenant, error)
}

type maturityService struct {
	tenantRepo     repositories.TenantRepository
	membershipRepo repositories.MembershipRepository
	cacheSvc       caching.CacheService
	notifier       NotificationService
	auditSvc       AuditService
	tenantLocks    *keyedLocks
	now            func() time.Time
}

func NewMaturityService(tenantRepo repositories.TenantRepository, membershipRepo repositories.MembershipRepository,
	cacheSvc caching.CacheService, notifier NotificationService, auditSvc AuditService) MaturityService {
	return &maturityService{
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
		cacheSvc:       cacheSvc,
		notifier:       notifier,
		auditSvc:       auditSvc,
		tenantLocks:    newKeyedLocks(),
		now:            time.Now,
	}
}

func (s *maturityService) Recalculate(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	unlock := s.tenantLocks.Lock(tenantID.String())
	defer unlock()

	counts, err := s.membershipRepo.CountRoles(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	if err := s.tenantRepo.UpdateCounters(ctx, tenantID, counts.Admins, counts.Stewards); err != nil {
		return nil, fmt.Errorf("failed to update counters: %w", err)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := Evaluate(tenant, s.now())
	if !result.Promote {
		return tenant, nil
	}
	return s.promote(ctx, tenant, false, nil, result.Reason)
}

func (s *maturityService) ForcePromote(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID) (*models.Tenant, error) {
	unlock := s.tenantLocks.Lock(tenantID.String())
	defer unlock()

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.IsMature() {
		// Promoting an already-mature tenant is a no-op, not an error.
		return tenant, nil
	}
	return s.promote(ctx, tenant, true, actorID, "superadmin override")
}

// promote runs the transactional state flip. Caller must hold the tenant
// lock.
func (s *maturityService) promote(ctx context.Context, tenant *models.Tenant, forced bool, actorID *uuid.UUID, reason string) (*models.Tenant, error) {
	promoted, err := s.tenantRepo.PromoteToMature(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to promote tenant: %w", err)
	}
	if !promoted {
		return s.tenantRepo.GetByID(ctx, tenant.ID)
	}

	if err := s.cacheSvc.DeleteTenant(ctx, tenant.Domain); err != nil {
		log.Printf("WARN: failed to invalidate tenant cache for %s: %v", tenant.Domain, err)
	}

	fresh, err := s.tenantRepo.GetByID(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("tenant %s promoted to mature (%s)", fresh.Domain, reason)
	s.auditSvc.TenantPromoted(ctx, fresh.ID, forced, actorID)
	s.notifier.TenantPromoted(ctx, fresh, forced)
	return fresh, nil
}

func (s *maturityService) UpdateThresholds(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID) (*models.Tenant, error) {
	if ageDays < 0 || ageDays > models.MaxAgeDaysThreshold {
		return nil, common.Validation("age_days_threshold", fmt.Sprintf("must be between 0 and %d", models.MaxAgeDaysThreshold))
	}
	if users < 0 {
		return nil, common.Validation("user_threshold", "must not be negative")
	}
	if admins < 0 {
		return nil, common.Validation("admin_threshold", "must not be negative")
	}

	unlock := s.tenantLocks.Lock(tenantID.String())
	defer unlock()

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.UpdateThresholds(ctx, tenantID, ageDays, users, admins); err != nil {
		return nil, err
	}
	if err := s.cacheSvc.DeleteTenant(ctx, tenant.Domain); err != nil {
		log.Printf("WARN: failed to invalidate tenant cache for %s: %v", tenant.Domain, err)
	}
	s.auditSvc.ThresholdsUpdated(ctx, tenantID, ageDays, users, admins, actorID)

	// A lower age threshold may qualify the tenant immediately.
	tenant, err = s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if result := Evaluate(tenant, s.now()); result.Promote {
		return s.promote(ctx, tenant, false, actorID, result.Reason)
	}
	return tenant, nil
}
