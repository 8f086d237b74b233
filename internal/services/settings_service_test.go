package services

import (
	"context"
	"testing"

	"adrboard/internal/common"
	"adrboard/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantSettings), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type SettingsServiceTestSuite struct {
	suite.Suite
	settingsRepo *MockSettingsRepository
	service      SettingsService
	ctx          context.Context
	tenantID     uuid.UUID
}

func (suite *SettingsServiceTestSuite) SetupTest() {
	suite.settingsRepo = &MockSettingsRepository{}
	suite.service = NewSettingsService(suite.settingsRepo)
	suite.ctx = context.Background()
	suite.tenantID = uuid.New()

	suite.settingsRepo.Test(suite.T())
}

func (suite *SettingsServiceTestSuite) TearDownTest() {
	suite.settingsRepo.AssertExpectations(suite.T())
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}

func (suite *SettingsServiceTestSuite) current() *models.TenantSettings {
	return &models.TenantSettings{
		TenantID:         suite.tenantID,
		DisplayName:      "Acme",
		AuthMethod:       models.AuthMethodPassword,
		SelfRegistration: false,
	}
}

func (suite *SettingsServiceTestSuite) TestUpdate_UnlockedChangesRestrictedFields() {
	incoming := &models.TenantSettings{
		DisplayName:      "Acme Corp",
		AuthMethod:       models.AuthMethodSSO,
		SelfRegistration: true,
	}
	updated := *incoming
	updated.TenantID = suite.tenantID

	suite.settingsRepo.On("Get", suite.ctx, suite.tenantID).Return(suite.current(), nil).Once()
	suite.settingsRepo.On("Upsert", suite.ctx, mock.AnythingOfType("*models.TenantSettings")).Return(nil)
	suite.settingsRepo.On("Get", suite.ctx, suite.tenantID).Return(&updated, nil).Once()

	result, err := suite.service.Update(suite.ctx, suite.tenantID, false, incoming)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AuthMethodSSO, result.AuthMethod)
	assert.True(suite.T(), result.SelfRegistration)
}

func (suite *SettingsServiceTestSuite) TestUpdate_LockedRejectsAuthMethodChange() {
	incoming := &models.TenantSettings{
		DisplayName: "Acme",
		AuthMethod:  models.AuthMethodSSO,
	}

	suite.settingsRepo.On("Get", suite.ctx, suite.tenantID).Return(suite.current(), nil)

	_, err := suite.service.Update(suite.ctx, suite.tenantID, true, incoming)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeForbidden, appErr.Code)
	suite.settingsRepo.AssertNotCalled(suite.T(), "Upsert", mock.Anything, mock.Anything)
}

func (suite *SettingsServiceTestSuite) TestUpdate_LockedAllowsUnrestrictedFields() {
	incoming := &models.TenantSettings{
		DisplayName: "Acme Renamed",
		AuthMethod:  models.AuthMethodPassword,
	}
	updated := *incoming
	updated.TenantID = suite.tenantID

	suite.settingsRepo.On("Get", suite.ctx, suite.tenantID).Return(suite.current(), nil).Once()
	suite.settingsRepo.On("Upsert", suite.ctx, mock.AnythingOfType("*models.TenantSettings")).Return(nil)
	suite.settingsRepo.On("Get", suite.ctx, suite.tenantID).Return(&updated, nil).Once()

	result, err := suite.service.Update(suite.ctx, suite.tenantID, true, incoming)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme Renamed", result.DisplayName)
}

func (suite *SettingsServiceTestSuite) TestUpdate_InvalidAuthMethodRejected() {
	incoming := &models.TenantSettings{AuthMethod: models.AuthMethod("carrier-pigeon")}

	_, err := suite.service.Update(suite.ctx, suite.tenantID, false, incoming)

	var appErr *common.Error
	assert.ErrorAs(suite.T(), err, &appErr)
	assert.Equal(suite.T(), common.CodeValidation, appErr.Code)
}
