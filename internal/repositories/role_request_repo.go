package repositories

import (
	"context"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

type RoleRequestRepository interface {
	Create(ctx context.Context, request *models.RoleRequest) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoleRequest, error)
	HasPending(ctx context.Context, userID, tenantID uuid.UUID) (bool, error)
	// Resolve flips a pending request exactly once. Returns false when the
	// request does not exist or is no longer pending.
	Resolve(ctx context.Context, tenantID, id, resolvedBy uuid.UUID, status models.RoleRequestStatus) (bool, error)
	ListPending(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RoleRequest, error)
}

type roleRequestRepo struct {
	db Database
}

func NewRoleRequestRepo(db Database) RoleRequestRepository {
	return &roleRequestRepo{db: db}
}

func (r *roleRequestRepo) Create(ctx context.Context, request *models.RoleRequest) error {
	query := `
		INSERT INTO role_requests (id, user_id, tenant_id, requested_role, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, request.ID, request.UserID, request.TenantID,
		request.RequestedRole, request.Reason, request.Status)
	return err
}

func (r *roleRequestRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.RoleRequest, error) {
	request := &models.RoleRequest{}
	query := `
		SELECT id, user_id, tenant_id, requested_role, reason, status, resolved_by, resolved_at, created_at
		FROM role_requests
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&request.ID, &request.UserID, &request.TenantID,
		&request.RequestedRole, &request.Reason, &request.Status, &request.ResolvedBy, &request.ResolvedAt, &request.CreatedAt)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *roleRequestRepo) HasPending(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM role_requests WHERE user_id = $1 AND tenant_id = $2 AND status = $3`
	err := r.db.QueryRow(ctx, query, userID, tenantID, models.RoleRequestPending).Scan(&count)
	return count > 0, err
}

func (r *roleRequestRepo) Resolve(ctx context.Context, tenantID, id, resolvedBy uuid.UUID, status models.RoleRequestStatus) (bool, error) {
	query := `
		UPDATE role_requests
		SET status = $1, resolved_by = $2, resolved_at = NOW()
		WHERE tenant_id = $3 AND id = $4 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, status, resolvedBy, tenantID, id, models.RoleRequestPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *roleRequestRepo) ListPending(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.RoleRequest, error) {
	query := `
		SELECT id, user_id, tenant_id, requested_role, reason, status, resolved_by, resolved_at, created_at
		FROM role_requests
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, tenantID, models.RoleRequestPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.RoleRequest
	for rows.Next() {
		request := &models.RoleRequest{}
		if err := rows.Scan(&request.ID, &request.UserID, &request.TenantID, &request.RequestedRole,
			&request.Reason, &request.Status, &request.ResolvedBy, &request.ResolvedAt, &request.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}
