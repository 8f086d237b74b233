package services

import (
	"context"
	"errors"
	"log"
	"time"

	"adrboard/internal/caching"
	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/jackc/pgx/v5"
)

const tenantCacheTTL = time.Minute

// TenantService is the read surface for tenants. Reads are cache-backed and
// opportunistically re-evaluate age-based promotion, so a tenant that aged
// past its threshold promotes on the next request even without membership
// churn.
type TenantService interface {
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

type tenantService struct {
	tenantRepo  repositories.TenantRepository
	cacheSvc    caching.CacheService
	maturitySvc MaturityService
	now         func() time.Time
}

func NewTenantService(tenantRepo repositories.TenantRepository, cacheSvc caching.CacheService, maturitySvc MaturityService) TenantService {
	return &tenantService{
		tenantRepo:  tenantRepo,
		cacheSvc:    cacheSvc,
		maturitySvc: maturitySvc,
		now:         time.Now,
	}
}

func (s *tenantService) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	domain = common.NormalizeDomain(domain)
	if domain == "" {
		return nil, common.Validation("domain", "domain is required")
	}

	if cached, err := s.cacheSvc.GetTenant(ctx, domain); err == nil {
		return s.maybePromote(ctx, cached), nil
	} else if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("WARN: tenant cache read failed for %s: %v", domain, err)
	}

	tenant, err := s.tenantRepo.GetByDomain(ctx, domain)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("tenant")
		}
		return nil, err
	}

	tenant = s.maybePromote(ctx, tenant)
	if err := s.cacheSvc.SetTenant(ctx, tenant, tenantCacheTTL); err != nil {
		log.Printf("WARN: tenant cache write failed for %s: %v", domain, err)
	}
	return tenant, nil
}

// maybePromote runs the evaluator on read. Only an age threshold can be
// newly met here; counter changes re-evaluate at write time.
func (s *tenantService) maybePromote(ctx context.Context, tenant *models.Tenant) *models.Tenant {
	if !Evaluate(tenant, s.now()).Promote {
		return tenant
	}
	promoted, err := s.maturitySvc.Recalculate(ctx, tenant.ID)
	if err != nil {
		log.Printf("WARN: opportunistic maturity evaluation failed for %s: %v", tenant.Domain, err)
		return tenant
	}
	return promoted
}

func (s *tenantService) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.tenantRepo.List(ctx, limit, offset)
}
