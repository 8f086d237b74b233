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

	"github.com/google/uuid"
)

const domainStatusTTL = 5 * time.Minute

// ApprovalService is the domain approval ledger surface. Its Status method
// satisfies guard.DomainStatusLookup.
type ApprovalService interface {
	Status(ctx context.Context, domain string) (models.DomainApprovalStatus, error)
	SetStatus(ctx context.Context, domain string, status models.DomainApprovalStatus, actorID *uuid.UUID) error
	ListByStatus(ctx context.Context, status models.DomainApprovalStatus, limit, offset int) ([]*models.DomainApproval, error)
}

type approvalService struct {
	approvalRepo repositories.DomainApprovalRepository
	tenantRepo   repositories.TenantRepository
	cacheSvc     caching.CacheService
	auditSvc     AuditService
}

func NewApprovalService(approvalRepo repositories.DomainApprovalRepository, tenantRepo repositories.TenantRepository,
	cacheSvc caching.CacheService, auditSvc AuditService) ApprovalService {
	return &approvalService{
		approvalRepo: approvalRepo,
		tenantRepo:   tenantRepo,
		cacheSvc:     cacheSvc,
		auditSvc:     auditSvc,
	}
}

// Status resolves a domain's approval status, cache first. A ledger error is
// returned alongside DomainUnknown; the guard treats that as "continue" by
// policy.
func (s *approvalService) Status(ctx context.Context, domain string) (models.DomainApprovalStatus, error) {
	domain = common.NormalizeDomain(domain)

	status, err := s.cacheSvc.GetDomainStatus(ctx, domain)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("WARN: domain status cache read failed for %s: %v", domain, err)
	}

	status, err = s.approvalRepo.GetStatus(ctx, domain)
	if err != nil {
		return models.DomainUnknown, err
	}

	if cacheErr := s.cacheSvc.SetDomainStatus(ctx, domain, status, domainStatusTTL); cacheErr != nil {
		log.Printf("WARN: domain status cache write failed for %s: %v", domain, cacheErr)
	}
	return status, nil
}

func (s *approvalService) SetStatus(ctx context.Context, domain string, status models.DomainApprovalStatus, actorID *uuid.UUID) error {
	domain = common.NormalizeDomain(domain)
	if domain == "" {
		return common.Validation("domain", "domain is required")
	}
	if status != models.DomainApproved && status != models.DomainRejected && status != models.DomainPending {
		return common.Validation("status", "status must be one of: pending, approved, rejected")
	}

	if err := s.approvalRepo.Upsert(ctx, &models.DomainApproval{Domain: domain, Status: status}); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteDomainStatus(ctx, domain); err != nil {
		log.Printf("WARN: failed to invalidate domain status cache for %s: %v", domain, err)
	}

	// The ledger may hold domains with no tenant yet; only audit against a
	// tenant when one exists.
	if tenant, err := s.tenantRepo.GetByDomain(ctx, domain); err == nil {
		s.auditSvc.DomainApprovalChanged(ctx, tenant.ID, domain, status, actorID)
	}
	return nil
}

func (s *approvalService) ListByStatus(ctx context.Context, status models.DomainApprovalStatus, limit, offset int) ([]*models.DomainApproval, error) {
	if !status.Valid() {
		return nil, common.Validation("status", "invalid approval status")
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.approvalRepo.List(ctx, status, limit, offset)
}
