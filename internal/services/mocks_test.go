package services

import (
	"context"
	"time"

	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListBootstrap(ctx context.Context) ([]*models.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) UpdateThresholds(ctx context.Context, id uuid.UUID, ageDays, users, admins int) error {
	args := m.Called(ctx, id, ageDays, users, admins)
	return args.Error(0)
}

func (m *MockTenantRepository) UpdateCounters(ctx context.Context, id uuid.UUID, adminCount, stewardCount int) error {
	args := m.Called(ctx, id, adminCount, stewardCount)
	return args.Error(0)
}

func (m *MockTenantRepository) PromoteToMature(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) SetMaturityState(ctx context.Context, id uuid.UUID, state models.MaturityState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *MockMembershipRepository) UpdateRole(ctx context.Context, userID, tenantID uuid.UUID, role models.GlobalRole) error {
	args := m.Called(ctx, userID, tenantID, role)
	return args.Error(0)
}

func (m *MockMembershipRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Membership, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountRoles(ctx context.Context, tenantID uuid.UUID) (repositories.RoleCounts, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(repositories.RoleCounts), args.Error(1)
}

type MockRoleRequestRepository struct {
	mock.Mock
}

func (m *MockRoleRequestRepository) Create(ctx context.Context, request *models.RoleRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRoleRequestRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoleRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoleRequest), args.Error(1)
}

func (m *MockRoleRequestRepository) HasPending(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRequestRepository) Resolve(ctx context.Context, tenantID, id, resolvedBy uuid.UUID, status models.RoleRequestStatus) (bool, error) {
	args := m.Called(ctx, tenantID, id, resolvedBy, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRequestRepository) ListPending(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RoleRequest, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.RoleRequest), args.Error(1)
}

type MockDomainApprovalRepository struct {
	mock.Mock
}

func (m *MockDomainApprovalRepository) GetStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error) {
	args := m.Called(ctx, domain)
	return args.Get(0).(models.DomainApprovalStatus), args.Error(1)
}

func (m *MockDomainApprovalRepository) Upsert(ctx context.Context, approval *models.DomainApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockDomainApprovalRepository) List(ctx context.Context, status models.DomainApprovalStatus, limit, offset int) ([]*models.DomainApproval, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.DomainApproval), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDomainStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error) {
	args := m.Called(ctx, domain)
	return args.Get(0).(models.DomainApprovalStatus), args.Error(1)
}

func (m *MockCacheService) SetDomainStatus(ctx context.Context, domain string, status models.DomainApprovalStatus, ttl time.Duration) error {
	args := m.Called(ctx, domain, status, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteDomainStatus(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

func (m *MockCacheService) GetTenant(ctx context.Context, domain string) (*models.Tenant, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	args := m.Called(ctx, tenant, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteTenant(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

func (m *MockCacheService) PushEvent(ctx context.Context, queue string, payload []byte) error {
	args := m.Called(ctx, queue, payload)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) TenantPromoted(ctx context.Context, tenant *models.Tenant, forced bool) {
	m.Called(ctx, tenant, forced)
}

func (m *MockNotificationService) RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest, domain string) {
	m.Called(ctx, request, domain)
}

func (m *MockNotificationService) RoleRequestResolved(ctx context.Context, request *models.RoleRequest, domain string) {
	m.Called(ctx, request, domain)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) TenantPromoted(ctx context.Context, tenantID uuid.UUID, forced bool, actorID *uuid.UUID) {
	m.Called(ctx, tenantID, forced, actorID)
}

func (m *MockAuditService) ThresholdsUpdated(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID) {
	m.Called(ctx, tenantID, ageDays, users, admins, actorID)
}

func (m *MockAuditService) DomainApprovalChanged(ctx context.Context, tenantID uuid.UUID, domain string, status models.DomainApprovalStatus, actorID *uuid.UUID) {
	m.Called(ctx, tenantID, domain, status, actorID)
}

func (m *MockAuditService) RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest) {
	m.Called(ctx, request)
}

func (m *MockAuditService) RoleRequestResolved(ctx context.Context, request *models.RoleRequest) {
	m.Called(ctx, request)
}

func (m *MockAuditService) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockMaturityService struct {
	mock.Mock
}

func (m *MockMaturityService) Recalculate(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockMaturityService) ForcePromote(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockMaturityService) UpdateThresholds(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID, ageDays, users, admins, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetTenantIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}
