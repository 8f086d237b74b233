package services

import (
	"context"
	"testing"
	"time"

	"adrboard/internal/common"
	"adrboard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RoleRequestServiceTestSuite struct {
	suite.Suite
	requestRepo    *MockRoleRequestRepository
	membershipRepo *MockMembershipRepository
	tenantRepo     *MockTenantRepository
	maturitySvc    *MockMaturityService
	notifier       *MockNotificationService
	auditSvc       *MockAuditService
	service        RoleRequestService
	ctx            context.Context
	userID         uuid.UUID
	tenantID       uuid.UUID
}

func (suite *RoleRequestServiceTestSuite) SetupTest() {
	suite.requestRepo = &MockRoleRequestRepository{}
	suite.membershipRepo = &MockMembershipRepository{}
	suite.tenantRepo = &MockTenantRepository{}
	suite.maturitySvc = &MockMaturityService{}
	suite.notifier = &MockNotificationService{}
	suite.auditSvc = &MockAuditService{}
	suite.service = NewRoleRequestService(suite.requestRepo, suite.membershipRepo,
		suite.tenantRepo, suite.maturitySvc, suite.notifier, suite.auditSvc)
	suite.ctx = context.Background()
	suite.userID = uuid.New()
	suite.tenantID = uuid.New()

	suite.requestRepo.Test(suite.T())
	suite.membershipRepo.Test(suite.T())
}

func (suite *RoleRequestServiceTestSuite) TearDownTest() {
	suite.requestRepo.AssertExpectations(suite.T())
	suite.membershipRepo.AssertExpectations(suite.T())
	suite.maturitySvc.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
	suite.auditSvc.AssertExpectations(suite.T())
}

func TestRoleRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoleRequestServiceTestSuite))
}

func (suite *RoleRequestServiceTestSuite) membership(role models.GlobalRole) *models.Membership {
	return &models.Membership{
		ID:         uuid.New(),
		UserID:     suite.userID,
		TenantID:   suite.tenantID,
		GlobalRole: role,
	}
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_Success() {
	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, suite.userID, suite.tenantID).
		Return(suite.membership(models.RoleUser), nil)
	suite.requestRepo.On("HasPending", suite.ctx, suite.userID, suite.tenantID).Return(false, nil)
	suite.requestRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.RoleRequest")).Return(nil).
		Run(func(args mock.Arguments) {
			request := args.Get(1).(*models.RoleRequest)
			assert.Equal(suite.T(), models.RoleRequestPending, request.Status)
			assert.Equal(suite.T(), models.RoleSteward, request.RequestedRole)
			assert.NotEqual(suite.T(), uuid.Nil, request.ID)
		})
	suite.tenantRepo.On("GetByID", suite.ctx, suite.tenantID).
		Return(&models.Tenant{ID: suite.tenantID, Domain: "acme.com"}, nil)
	suite.auditSvc.On("RoleRequestSubmitted", suite.ctx, mock.AnythingOfType("*models.RoleRequest")).Return()
	suite.notifier.On("RoleRequestSubmitted", suite.ctx, mock.AnythingOfType("*models.RoleRequest"), "acme.com").Return()

	request, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleSteward, "  active reviewer  ")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "active reviewer", request.Reason)
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_RejectsUnrequestableRole() {
	_, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleProvisionalAdmin, "reason")

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeValidation, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_RejectsEmptyReason() {
	_, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleAdmin, "   ")

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), "reason", appErr.Field)
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_ElevatedMemberForbidden() {
	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, suite.userID, suite.tenantID).
		Return(suite.membership(models.RoleSteward), nil)

	_, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleAdmin, "want more")

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeForbidden, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_NonMemberForbidden() {
	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, suite.userID, suite.tenantID).
		Return(nil, pgx.ErrNoRows)

	_, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleSteward, "reason")

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeForbidden, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestSubmit_DuplicatePendingConflict() {
	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, suite.userID, suite.tenantID).
		Return(suite.membership(models.RoleUser), nil)
	suite.requestRepo.On("HasPending", suite.ctx, suite.userID, suite.tenantID).Return(true, nil)

	_, err := suite.service.Submit(suite.ctx, suite.userID, suite.tenantID, models.RoleSteward, "reason")

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeConflict, appErr.Code)
	suite.requestRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *RoleRequestServiceTestSuite) pendingRequest(requestID uuid.UUID) *models.RoleRequest {
	return &models.RoleRequest{
		ID:            requestID,
		UserID:        suite.userID,
		TenantID:      suite.tenantID,
		RequestedRole: models.RoleSteward,
		Reason:        "active reviewer",
		Status:        models.RoleRequestPending,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
}

func (suite *RoleRequestServiceTestSuite) TestResolve_ApproveUpdatesRoleAndRecalculates() {
	resolverID := uuid.New()
	requestID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleAdmin}

	approved := suite.pendingRequest(requestID)
	approved.Status = models.RoleRequestApproved
	approved.ResolvedBy = &resolverID

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)
	suite.requestRepo.On("GetByID", suite.ctx, suite.tenantID, requestID).
		Return(suite.pendingRequest(requestID), nil).Once()
	suite.requestRepo.On("Resolve", suite.ctx, suite.tenantID, requestID, resolverID, models.RoleRequestApproved).
		Return(true, nil)
	suite.membershipRepo.On("UpdateRole", suite.ctx, suite.userID, suite.tenantID, models.RoleSteward).Return(nil)
	suite.maturitySvc.On("Recalculate", suite.ctx, suite.tenantID).
		Return(&models.Tenant{ID: suite.tenantID, Domain: "acme.com", MaturityState: models.MaturityMature}, nil)
	suite.requestRepo.On("GetByID", suite.ctx, suite.tenantID, requestID).Return(approved, nil).Once()
	suite.tenantRepo.On("GetByID", suite.ctx, suite.tenantID).
		Return(&models.Tenant{ID: suite.tenantID, Domain: "acme.com"}, nil)
	suite.auditSvc.On("RoleRequestResolved", suite.ctx, approved).Return()
	suite.notifier.On("RoleRequestResolved", suite.ctx, approved, "acme.com").Return()

	result, err := suite.service.Resolve(suite.ctx, resolverID, suite.tenantID, requestID, models.RoleRequestApproved)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleRequestApproved, result.Status)
}

func (suite *RoleRequestServiceTestSuite) TestResolve_RejectLeavesRoleUntouched() {
	resolverID := uuid.New()
	requestID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleSteward}

	rejected := suite.pendingRequest(requestID)
	rejected.Status = models.RoleRequestRejected

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)
	suite.requestRepo.On("GetByID", suite.ctx, suite.tenantID, requestID).
		Return(suite.pendingRequest(requestID), nil).Once()
	suite.requestRepo.On("Resolve", suite.ctx, suite.tenantID, requestID, resolverID, models.RoleRequestRejected).
		Return(true, nil)
	suite.requestRepo.On("GetByID", suite.ctx, suite.tenantID, requestID).Return(rejected, nil).Once()
	suite.tenantRepo.On("GetByID", suite.ctx, suite.tenantID).
		Return(&models.Tenant{ID: suite.tenantID, Domain: "acme.com"}, nil)
	suite.auditSvc.On("RoleRequestResolved", suite.ctx, rejected).Return()
	suite.notifier.On("RoleRequestResolved", suite.ctx, rejected, "acme.com").Return()

	result, err := suite.service.Resolve(suite.ctx, resolverID, suite.tenantID, requestID, models.RoleRequestRejected)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleRequestRejected, result.Status)
	suite.membershipRepo.AssertNotCalled(suite.T(), "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.maturitySvc.AssertNotCalled(suite.T(), "Recalculate", mock.Anything, mock.Anything)
}

func (suite *RoleRequestServiceTestSuite) TestResolve_PlainMemberForbidden() {
	resolverID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleUser}

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)

	_, err := suite.service.Resolve(suite.ctx, resolverID, suite.tenantID, uuid.New(), models.RoleRequestApproved)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeForbidden, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestResolve_AlreadyResolvedReportsNotFound() {
	resolverID := uuid.New()
	requestID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleProvisionalAdmin}

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)
	suite.requestRepo.On("GetByID", suite.ctx, suite.tenantID, requestID).
		Return(suite.pendingRequest(requestID), nil)
	suite.requestRepo.On("Resolve", suite.ctx, suite.tenantID, requestID, resolverID, models.RoleRequestRejected).
		Return(false, nil)

	_, err := suite.service.Resolve(suite.ctx, resolverID, suite.tenantID, requestID, models.RoleRequestRejected)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeNotFound, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestResolve_InvalidOutcomeRejected() {
	_, err := suite.service.Resolve(suite.ctx, uuid.New(), suite.tenantID, uuid.New(), models.RoleRequestPending)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeValidation, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestListPending_RequiresElevatedResolver() {
	resolverID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleUser}

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)

	_, err := suite.service.ListPending(suite.ctx, resolverID, suite.tenantID, 10, 0)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeForbidden, appErr.Code)
}

func (suite *RoleRequestServiceTestSuite) TestListPending_ReturnsRequests() {
	resolverID := uuid.New()
	resolver := &models.Membership{UserID: resolverID, TenantID: suite.tenantID, GlobalRole: models.RoleProvisionalAdmin}
	pending := []*models.RoleRequest{suite.pendingRequest(uuid.New())}

	suite.membershipRepo.On("GetByUserAndTenant", suite.ctx, resolverID, suite.tenantID).Return(resolver, nil)
	suite.requestRepo.On("ListPending", suite.ctx, suite.tenantID, 10, 0).Return(pending, nil)

	result, err := suite.service.ListPending(suite.ctx, resolverID, suite.tenantID, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
}
