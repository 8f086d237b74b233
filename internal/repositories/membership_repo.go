package repositories

import (
	"context"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

// RoleCounts is the per-tenant breakdown of elevated roles. Admins includes
// provisional admins: the provisional admin is still one administrator.
type RoleCounts struct {
	Admins   int
	Stewards int
	Users    int
}

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error)
	UpdateRole(ctx context.Context, userID, tenantID uuid.UUID, role models.GlobalRole) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Membership, error)
	CountRoles(ctx context.Context, tenantID uuid.UUID) (RoleCounts, error)
}

type membershipRepo struct {
	db Database
}

func NewMembershipRepo(db Database) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, tenant_id, global_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, membership.ID, membership.UserID, membership.TenantID, membership.GlobalRole)
	return err
}

func (r *membershipRepo) GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error) {
	membership := &models.Membership{}
	query := `
		SELECT id, user_id, tenant_id, global_role, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND tenant_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(&membership.ID, &membership.UserID,
		&membership.TenantID, &membership.GlobalRole, &membership.CreatedAt, &membership.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return membership, nil
}

func (r *membershipRepo) UpdateRole(ctx context.Context, userID, tenantID uuid.UUID, role models.GlobalRole) error {
	query := `
		UPDATE memberships
		SET global_role = $1, updated_at = NOW()
		WHERE user_id = $2 AND tenant_id = $3
	`
	_, err := r.db.Exec(ctx, query, role, userID, tenantID)
	return err
}

func (r *membershipRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, global_role, created_at, updated_at
		FROM memberships
		WHERE tenant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		membership := &models.Membership{}
		if err := rows.Scan(&membership.ID, &membership.UserID, &membership.TenantID,
			&membership.GlobalRole, &membership.CreatedAt, &membership.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, rows.Err()
}

func (r *membershipRepo) CountRoles(ctx context.Context, tenantID uuid.UUID) (RoleCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE global_role IN ($2, $3)),
			COUNT(*) FILTER (WHERE global_role = $4),
			COUNT(*) FILTER (WHERE global_role = $5)
		FROM memberships
		WHERE tenant_id = $1
	`
	var counts RoleCounts
	err := r.db.QueryRow(ctx, query, tenantID,
		models.RoleAdmin, models.RoleProvisionalAdmin, models.RoleSteward, models.RoleUser).
		Scan(&counts.Admins, &counts.Stewards, &counts.Users)
	return counts, err
}
