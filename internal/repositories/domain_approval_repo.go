package repositories

import (
	"context"
	"errors"

	"adrboard/internal/models"

	"github.com/jackc/pgx/v5"
)

type DomainApprovalRepository interface {
	// GetStatus returns DomainUnknown (and no error) when the ledger has no
	// record for the domain: legacy tenants predate the ledger.
	GetStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error)
	Upsert(ctx context.Context, approval *models.DomainApproval) error
	List(ctx context.Context, status models.DomainApprovalStatus, limit, offset int) ([]*models.DomainApproval, error)
}

type domainApprovalRepo struct {
	db Database
}

func NewDomainApprovalRepo(db Database) DomainApprovalRepository {
	return &domainApprovalRepo{db: db}
}

func (r *domainApprovalRepo) GetStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error) {
	var status models.DomainApprovalStatus
	query := `SELECT status FROM domain_approvals WHERE domain = $1`
	err := r.db.QueryRow(ctx, query, domain).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DomainUnknown, nil
	}
	if err != nil {
		return models.DomainUnknown, err
	}
	return status, nil
}

func (r *domainApprovalRepo) Upsert(ctx context.Context, approval *models.DomainApproval) error {
	query := `
		INSERT INTO domain_approvals (domain, status, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (domain) DO UPDATE SET status = $2, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, approval.Domain, approval.Status)
	return err
}

func (r *domainApprovalRepo) List(ctx context.Context, status models.DomainApprovalStatus, limit, offset int) ([]*models.DomainApproval, error) {
	query := `
		SELECT domain, status, created_at, updated_at
		FROM domain_approvals
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*models.DomainApproval
	for rows.Next() {
		approval := &models.DomainApproval{}
		if err := rows.Scan(&approval.Domain, &approval.Status, &approval.CreatedAt, &approval.UpdatedAt); err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}
	return approvals, rows.Err()
}
