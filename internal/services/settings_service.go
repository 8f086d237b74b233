package services

import (
	"context"
	"fmt"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
)

type SettingsService interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	// Update applies the incoming settings. When locked is true the
	// restricted fields (auth method, self-registration) must match the
	// stored values; a change is rejected rather than silently dropped.
	Update(ctx context.Context, tenantID uuid.UUID, locked bool, incoming *models.TenantSettings) (*models.TenantSettings, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	return s.settingsRepo.Get(ctx, tenantID)
}

func (s *settingsService) Update(ctx context.Context, tenantID uuid.UUID, locked bool, incoming *models.TenantSettings) (*models.TenantSettings, error) {
	if !incoming.AuthMethod.Valid() {
		return nil, common.Validation("auth_method", "auth method must be password, sso, or passkey")
	}

	current, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if locked {
		if incoming.AuthMethod != current.AuthMethod {
			return nil, common.Forbidden()
		}
		if incoming.SelfRegistration != current.SelfRegistration {
			return nil, common.Forbidden()
		}
	}

	incoming.TenantID = tenantID
	if err := s.settingsRepo.Upsert(ctx, incoming); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return s.settingsRepo.Get(ctx, tenantID)
}
