package repositories

import (
	"context"
	"errors"

	"adrboard/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SettingsRepository interface {
	// Get returns defaults when no row exists yet.
	Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	Upsert(ctx context.Context, settings *models.TenantSettings) error
}

type settingsRepo struct {
	db Database
}

func NewSettingsRepo(db Database) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	settings := &models.TenantSettings{}
	query := `
		SELECT tenant_id, display_name, auth_method, self_registration, updated_at
		FROM tenant_settings
		WHERE tenant_id = $1
	`
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&settings.TenantID, &settings.DisplayName,
		&settings.AuthMethod, &settings.SelfRegistration, &settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.TenantSettings{
			TenantID:   tenantID,
			AuthMethod: models.AuthMethodPassword,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepo) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	query := `
		INSERT INTO tenant_settings (tenant_id, display_name, auth_method, self_registration, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id) DO UPDATE SET display_name = $2, auth_method = $3, self_registration = $4, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, settings.TenantID, settings.DisplayName, settings.AuthMethod, settings.SelfRegistration)
	return err
}
