package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"adrboard/internal/caching"
	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// FixtureService seeds deterministic state for integration test harnesses.
// It is only wired when fixtures are enabled in the config.
type FixtureService interface {
	SeedUser(ctx context.Context, email, password, name string, role models.GlobalRole) (*models.User, error)
	SetMaturity(ctx context.Context, domain string, state models.MaturityState) (*models.Tenant, error)
}

type fixtureService struct {
	provisioningSvc ProvisioningService
	membershipRepo  repositories.MembershipRepository
	tenantRepo      repositories.TenantRepository
	maturitySvc     MaturityService
	cacheSvc        caching.CacheService
}

func NewFixtureService(provisioningSvc ProvisioningService, membershipRepo repositories.MembershipRepository,
	tenantRepo repositories.TenantRepository, maturitySvc MaturityService, cacheSvc caching.CacheService) FixtureService {
	return &fixtureService{
		provisioningSvc: provisioningSvc,
		membershipRepo:  membershipRepo,
		tenantRepo:      tenantRepo,
		maturitySvc:     maturitySvc,
		cacheSvc:        cacheSvc,
	}
}

// SeedUser provisions a user through the normal signup path, then overrides
// the assigned role so tests can construct any membership shape directly.
func (s *fixtureService) SeedUser(ctx context.Context, email, password, name string, role models.GlobalRole) (*models.User, error) {
	if !role.Valid() {
		return nil, common.Validation("role", "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, membership, err := s.provisioningSvc.Provision(ctx, email, string(hash), name)
	if err != nil {
		return nil, err
	}

	if membership.GlobalRole != role {
		if err := s.membershipRepo.UpdateRole(ctx, user.ID, membership.TenantID, role); err != nil {
			return nil, fmt.Errorf("failed to set seeded role: %w", err)
		}
		if _, err := s.maturitySvc.Recalculate(ctx, membership.TenantID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SetMaturity writes the maturity state directly, bypassing the evaluator.
func (s *fixtureService) SetMaturity(ctx context.Context, domain string, state models.MaturityState) (*models.Tenant, error) {
	if state != models.MaturityBootstrap && state != models.MaturityMature {
		return nil, common.Validation("state", "state must be bootstrap or mature")
	}

	normalized := common.NormalizeDomain(domain)
	tenant, err := s.tenantRepo.GetByDomain(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("tenant")
		}
		return nil, err
	}

	if err := s.tenantRepo.SetMaturityState(ctx, tenant.ID, state); err != nil {
		return nil, fmt.Errorf("failed to set maturity state: %w", err)
	}
	if err := s.cacheSvc.DeleteTenant(ctx, normalized); err != nil {
		// Stale cache self-heals on TTL expiry.
		log.Printf("WARN: failed to invalidate tenant cache for %s: %v", normalized, err)
	}
	return s.tenantRepo.GetByID(ctx, tenant.ID)
}
