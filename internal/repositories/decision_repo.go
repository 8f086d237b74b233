package repositories

import (
	"context"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

type DecisionRepository interface {
	Create(ctx context.Context, decision *models.Decision) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Decision, error)
	Update(ctx context.Context, decision *models.Decision) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Decision, error)
}

type decisionRepo struct {
	db Database
}

func NewDecisionRepo(db Database) DecisionRepository {
	return &decisionRepo{db: db}
}

func (r *decisionRepo) Create(ctx context.Context, decision *models.Decision) error {
	query := `
		INSERT INTO decisions (id, tenant_id, title, context, outcome, status, author_id, attachment_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, decision.ID, decision.TenantID, decision.Title, decision.Context,
		decision.Outcome, decision.Status, decision.AuthorID, decision.AttachmentKey)
	return err
}

func (r *decisionRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Decision, error) {
	decision := &models.Decision{}
	query := `
		SELECT id, tenant_id, title, context, outcome, status, author_id, attachment_key, created_at, updated_at
		FROM decisions
		WHERE tenant_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&decision.ID, &decision.TenantID, &decision.Title,
		&decision.Context, &decision.Outcome, &decision.Status, &decision.AuthorID, &decision.AttachmentKey,
		&decision.CreatedAt, &decision.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

func (r *decisionRepo) Update(ctx context.Context, decision *models.Decision) error {
	query := `
		UPDATE decisions
		SET title = $1, context = $2, outcome = $3, status = $4, attachment_key = $5, updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7
	`
	_, err := r.db.Exec(ctx, query, decision.Title, decision.Context, decision.Outcome,
		decision.Status, decision.AttachmentKey, decision.TenantID, decision.ID)
	return err
}

func (r *decisionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM decisions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *decisionRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Decision, error) {
	query := `
		SELECT id, tenant_id, title, context, outcome, status, author_id, attachment_key, created_at, updated_at
		FROM decisions
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decisions []*models.Decision
	for rows.Next() {
		decision := &models.Decision{}
		if err := rows.Scan(&decision.ID, &decision.TenantID, &decision.Title, &decision.Context,
			&decision.Outcome, &decision.Status, &decision.AuthorID, &decision.AttachmentKey,
			&decision.CreatedAt, &decision.UpdatedAt); err != nil {
			return nil, err
		}
		decisions = append(decisions, decision)
	}
	return decisions, rows.Err()
}
