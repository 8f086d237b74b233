package repositories

import (
	"context"
	"fmt"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*models.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	ListBootstrap(ctx context.Context) ([]*models.Tenant, error)
	UpdateThresholds(ctx context.Context, id uuid.UUID, ageDays, users, admins int) error
	UpdateCounters(ctx context.Context, id uuid.UUID, adminCount, stewardCount int) error
	// PromoteToMature flips the tenant to mature and rewrites every
	// provisional_admin membership to admin in one transaction. Returns
	// false when the tenant was already mature.
	PromoteToMature(ctx context.Context, id uuid.UUID) (bool, error)
	// SetMaturityState is a direct write used only by test fixtures.
	SetMaturityState(ctx context.Context, id uuid.UUID, state models.MaturityState) error
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, domain, maturity_state, admin_count, steward_count, age_days_threshold, user_threshold, admin_threshold, created_at, updated_at`

func scanTenant(row interface{ Scan(dest ...any) error }) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.Domain, &tenant.MaturityState, &tenant.AdminCount, &tenant.StewardCount,
		&tenant.AgeDaysThreshold, &tenant.UserThreshold, &tenant.AdminThreshold, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, domain, maturity_state, admin_count, steward_count, age_days_threshold, user_threshold, admin_threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenant.ID, tenant.Domain, tenant.MaturityState, tenant.AdminCount,
		tenant.StewardCount, tenant.AgeDaysThreshold, tenant.UserThreshold, tenant.AdminThreshold)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE id = $1`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE domain = $1`, tenantColumns)
	return scanTenant(r.db.QueryRow(ctx, query, domain))
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`, tenantColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) ListBootstrap(ctx context.Context) ([]*models.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE maturity_state = $1 ORDER BY created_at`, tenantColumns)
	rows, err := r.db.Query(ctx, query, models.MaturityBootstrap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) UpdateThresholds(ctx context.Context, id uuid.UUID, ageDays, users, admins int) error {
	query := `
		UPDATE tenants
		SET age_days_threshold = $1, user_threshold = $2, admin_threshold = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, ageDays, users, admins, id)
	return err
}

func (r *tenantRepo) UpdateCounters(ctx context.Context, id uuid.UUID, adminCount, stewardCount int) error {
	query := `
		UPDATE tenants
		SET admin_count = $1, steward_count = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, adminCount, stewardCount, id)
	return err
}

func (r *tenantRepo) PromoteToMature(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE tenants
		SET maturity_state = $1, updated_at = NOW()
		WHERE id = $2 AND maturity_state = $3
	`, models.MaturityMature, id, models.MaturityBootstrap)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		// Already mature; promotion is idempotent.
		return false, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE memberships
		SET global_role = $1, updated_at = NOW()
		WHERE tenant_id = $2 AND global_role = $3
	`, models.RoleAdmin, id, models.RoleProvisionalAdmin)
	if err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func (r *tenantRepo) SetMaturityState(ctx context.Context, id uuid.UUID, state models.MaturityState) error {
	query := `UPDATE tenants SET maturity_state = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, state, id)
	return err
}
