package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var evalNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func bootstrapTenant(adminCount, stewardCount, ageDays int) *models.Tenant {
	return &models.Tenant{
		ID:               uuid.New(),
		Domain:           "acme.com",
		MaturityState:    models.MaturityBootstrap,
		AdminCount:       adminCount,
		StewardCount:     stewardCount,
		AgeDaysThreshold: models.DefaultAgeDaysThreshold,
		UserThreshold:    models.DefaultUserThreshold,
		AdminThreshold:   models.DefaultAdminThreshold,
		CreatedAt:        evalNow.AddDate(0, 0, -ageDays),
	}
}

func TestEvaluate_SecondAdminPromotes(t *testing.T) {
	result := Evaluate(bootstrapTenant(2, 0, 0), evalNow)
	assert.True(t, result.Promote)
	assert.Contains(t, result.Reason, "admin_count")
}

func TestEvaluate_StewardPromotes(t *testing.T) {
	result := Evaluate(bootstrapTenant(1, 1, 0), evalNow)
	assert.True(t, result.Promote)
	assert.Contains(t, result.Reason, "steward_count")
}

func TestEvaluate_AgeAtThresholdPromotes(t *testing.T) {
	result := Evaluate(bootstrapTenant(1, 0, models.DefaultAgeDaysThreshold), evalNow)
	assert.True(t, result.Promote)
	assert.Contains(t, result.Reason, "age")
}

func TestEvaluate_AgeOneDayShortStaysBootstrap(t *testing.T) {
	result := Evaluate(bootstrapTenant(1, 0, models.DefaultAgeDaysThreshold-1), evalNow)
	assert.False(t, result.Promote)
}

func TestEvaluate_MatureTenantNeverReEvaluated(t *testing.T) {
	tenant := bootstrapTenant(2, 1, 400)
	tenant.MaturityState = models.MaturityMature
	assert.False(t, Evaluate(tenant, evalNow).Promote)
}

type MaturityServiceTestSuite struct {
	suite.Suite
	tenantRepo     *MockTenantRepository
	membershipRepo *MockMembershipRepository
	cacheSvc       *MockCacheService
	notifier       *MockNotificationService
	auditSvc       *MockAuditService
	service        *maturityService
	ctx            context.Context
}

func (suite *MaturityServiceTestSuite) SetupTest() {
	suite.tenantRepo = &MockTenantRepository{}
	suite.membershipRepo = &MockMembershipRepository{}
	suite.cacheSvc = &MockCacheService{}
	suite.notifier = &MockNotificationService{}
	suite.auditSvc = &MockAuditService{}
	suite.service = NewMaturityService(suite.tenantRepo, suite.membershipRepo,
		suite.cacheSvc, suite.notifier, suite.auditSvc).(*maturityService)
	suite.service.now = func() time.Time { return evalNow }
	suite.ctx = context.Background()

	suite.tenantRepo.Test(suite.T())
	suite.membershipRepo.Test(suite.T())
}

func (suite *MaturityServiceTestSuite) TearDownTest() {
	suite.tenantRepo.AssertExpectations(suite.T())
	suite.membershipRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
	suite.auditSvc.AssertExpectations(suite.T())
}

func TestMaturityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaturityServiceTestSuite))
}

func (suite *MaturityServiceTestSuite) TestRecalculate_PromotesOnSecondAdmin() {
	tenant := bootstrapTenant(1, 0, 5)
	mature := *tenant
	mature.AdminCount = 2
	mature.MaturityState = models.MaturityMature

	suite.membershipRepo.On("CountRoles", suite.ctx, tenant.ID).
		Return(repositories.RoleCounts{Admins: 2, Users: 3}, nil)
	suite.tenantRepo.On("UpdateCounters", suite.ctx, tenant.ID, 2, 0).Return(nil)

	updated := *tenant
	updated.AdminCount = 2
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(&updated, nil).Once()
	suite.tenantRepo.On("PromoteToMature", suite.ctx, tenant.ID).Return(true, nil)
	suite.cacheSvc.On("DeleteTenant", suite.ctx, tenant.Domain).Return(nil)
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(&mature, nil).Once()
	suite.auditSvc.On("TenantPromoted", suite.ctx, tenant.ID, false, (*uuid.UUID)(nil)).Return()
	suite.notifier.On("TenantPromoted", suite.ctx, &mature, false).Return()

	result, err := suite.service.Recalculate(suite.ctx, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MaturityMature, result.MaturityState)
	assert.Equal(suite.T(), 2, result.AdminCount)
}

func (suite *MaturityServiceTestSuite) TestRecalculate_StaysBootstrapBelowThresholds() {
	tenant := bootstrapTenant(1, 0, 5)

	suite.membershipRepo.On("CountRoles", suite.ctx, tenant.ID).
		Return(repositories.RoleCounts{Admins: 1, Users: 4}, nil)
	suite.tenantRepo.On("UpdateCounters", suite.ctx, tenant.ID, 1, 0).Return(nil)
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil)

	result, err := suite.service.Recalculate(suite.ctx, tenant.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MaturityBootstrap, result.MaturityState)
	suite.tenantRepo.AssertNotCalled(suite.T(), "PromoteToMature", mock.Anything, mock.Anything)
}

func (suite *MaturityServiceTestSuite) TestRecalculate_CountErrorPropagates() {
	tenantID := uuid.New()
	suite.membershipRepo.On("CountRoles", suite.ctx, tenantID).
		Return(repositories.RoleCounts{}, errors.New("connection reset"))

	result, err := suite.service.Recalculate(suite.ctx, tenantID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *MaturityServiceTestSuite) TestForcePromote_Promotes() {
	actor := uuid.New()
	tenant := bootstrapTenant(1, 0, 2)
	mature := *tenant
	mature.MaturityState = models.MaturityMature

	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil).Once()
	suite.tenantRepo.On("PromoteToMature", suite.ctx, tenant.ID).Return(true, nil)
	suite.cacheSvc.On("DeleteTenant", suite.ctx, tenant.Domain).Return(nil)
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(&mature, nil).Once()
	suite.auditSvc.On("TenantPromoted", suite.ctx, tenant.ID, true, &actor).Return()
	suite.notifier.On("TenantPromoted", suite.ctx, &mature, true).Return()

	result, err := suite.service.ForcePromote(suite.ctx, tenant.ID, &actor)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MaturityMature, result.MaturityState)
}

func (suite *MaturityServiceTestSuite) TestForcePromote_AlreadyMatureIsNoOp() {
	tenant := bootstrapTenant(2, 1, 100)
	tenant.MaturityState = models.MaturityMature

	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil)

	result, err := suite.service.ForcePromote(suite.ctx, tenant.ID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MaturityMature, result.MaturityState)
	suite.tenantRepo.AssertNotCalled(suite.T(), "PromoteToMature", mock.Anything, mock.Anything)
}

func (suite *MaturityServiceTestSuite) TestUpdateThresholds_RejectsNegativeAge() {
	result, err := suite.service.UpdateThresholds(suite.ctx, uuid.New(), -10, 5, 2, nil)
	assert.Nil(suite.T(), result)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeValidation, appErr.Code)
	assert.Equal(suite.T(), "age_days_threshold", appErr.Field)
}

func (suite *MaturityServiceTestSuite) TestUpdateThresholds_RejectsAgeAboveCap() {
	_, err := suite.service.UpdateThresholds(suite.ctx, uuid.New(), models.MaxAgeDaysThreshold+1, 5, 2, nil)
	assert.Error(suite.T(), err)
}

func (suite *MaturityServiceTestSuite) TestUpdateThresholds_LoweredAgeTriggersPromotion() {
	tenant := bootstrapTenant(1, 0, 10)

	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(tenant, nil).Once()
	suite.tenantRepo.On("UpdateThresholds", suite.ctx, tenant.ID, 7, 5, 2).Return(nil)
	suite.cacheSvc.On("DeleteTenant", suite.ctx, tenant.Domain).Return(nil)
	suite.auditSvc.On("ThresholdsUpdated", suite.ctx, tenant.ID, 7, 5, 2, (*uuid.UUID)(nil)).Return()

	lowered := *tenant
	lowered.AgeDaysThreshold = 7
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(&lowered, nil).Once()

	mature := lowered
	mature.MaturityState = models.MaturityMature
	suite.tenantRepo.On("PromoteToMature", suite.ctx, tenant.ID).Return(true, nil)
	suite.tenantRepo.On("GetByID", suite.ctx, tenant.ID).Return(&mature, nil).Once()
	suite.auditSvc.On("TenantPromoted", suite.ctx, tenant.ID, false, (*uuid.UUID)(nil)).Return()
	suite.notifier.On("TenantPromoted", suite.ctx, &mature, false).Return()

	result, err := suite.service.UpdateThresholds(suite.ctx, tenant.ID, 7, 5, 2, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.MaturityMature, result.MaturityState)
}
