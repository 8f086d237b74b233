package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TenantDefaults seeds thresholds for newly provisioned tenants.
type TenantDefaults struct {
	AgeDaysThreshold int
	UserThreshold    int
	AdminThreshold   int
}

// ProvisioningService creates users and, for the first user of a new email
// domain, the tenant itself. The first user becomes the tenant's provisional
// admin: trusted, but restricted until the tenant matures.
type ProvisioningService interface {
	Provision(ctx context.Context, email, passwordHash, name string) (*models.User, *models.Membership, error)
}

type provisioningService struct {
	userRepo       repositories.UserRepository
	tenantRepo     repositories.TenantRepository
	membershipRepo repositories.MembershipRepository
	approvalRepo   repositories.DomainApprovalRepository
	maturitySvc    MaturityService
	defaults       TenantDefaults
	domainLocks    *keyedLocks
}

func NewProvisioningService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository,
	membershipRepo repositories.MembershipRepository, approvalRepo repositories.DomainApprovalRepository,
	maturitySvc MaturityService, defaults TenantDefaults) ProvisioningService {
	return &provisioningService{
		userRepo:       userRepo,
		tenantRepo:     tenantRepo,
		membershipRepo: membershipRepo,
		approvalRepo:   approvalRepo,
		maturitySvc:    maturitySvc,
		defaults:       defaults,
		domainLocks:    newKeyedLocks(),
	}
}

func (s *provisioningService) Provision(ctx context.Context, email, passwordHash, name string) (*models.User, *models.Membership, error) {
	domain, err := common.DomainFromEmail(email)
	if err != nil {
		return nil, nil, common.Validation("email", err.Error())
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, nil, common.Validation("name", err.Error())
	}

	// Two first-signups for the same new domain must not both create the
	// tenant.
	unlock := s.domainLocks.Lock(domain)
	defer unlock()

	tenant, err := s.tenantRepo.GetByDomain(ctx, domain)
	firstUser := false
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		tenant, err = s.createTenant(ctx, domain)
		if err != nil {
			return nil, nil, err
		}
		firstUser = true
	case err != nil:
		return nil, nil, fmt.Errorf("failed to look up tenant: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, nil, common.Conflict("an account with this email already exists")
		}
		return nil, nil, err
	}

	role := models.RoleUser
	if firstUser {
		role = models.RoleProvisionalAdmin
	}
	membership := &models.Membership{
		ID:         uuid.New(),
		UserID:     user.ID,
		TenantID:   tenant.ID,
		GlobalRole: role,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, nil, err
	}

	if _, err := s.maturitySvc.Recalculate(ctx, tenant.ID); err != nil {
		log.Printf("WARN: maturity recalculation after signup failed for %s: %v", domain, err)
	}

	return user, membership, nil
}

func (s *provisioningService) createTenant(ctx context.Context, domain string) (*models.Tenant, error) {
	tenant := &models.Tenant{
		ID:               uuid.New(),
		Domain:           domain,
		MaturityState:    models.MaturityBootstrap,
		AgeDaysThreshold: s.defaults.AgeDaysThreshold,
		UserThreshold:    s.defaults.UserThreshold,
		AdminThreshold:   s.defaults.AdminThreshold,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	// New domains enter the approval ledger pending superadmin review.
	approval := &models.DomainApproval{Domain: domain, Status: models.DomainPending}
	if err := s.approvalRepo.Upsert(ctx, approval); err != nil {
		log.Printf("WARN: failed to record domain approval entry for %s: %v", domain, err)
	}

	log.Printf("provisioned bootstrap tenant %s", domain)
	return tenant, nil
}
