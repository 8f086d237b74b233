package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adrboard/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}
	auditLog.CreatedAt = time.Now()

	var detailsBytes []byte
	if auditLog.Details != nil {
		b, err := json.Marshal(auditLog.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsBytes = b
	}

	query := `
		INSERT INTO audit_logs (id, tenant_id, action, record_id, details, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, auditLog.ID, auditLog.TenantID, auditLog.Action,
		auditLog.RecordID, detailsBytes, auditLog.ActorID, auditLog.CreatedAt)
	return err
}

func (r *auditLogsRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, tenant_id, action, record_id, details, actor_id, created_at
		FROM audit_logs
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var detailsBytes []byte
		if err := rows.Scan(&entry.ID, &entry.TenantID, &entry.Action, &entry.RecordID,
			&detailsBytes, &entry.ActorID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailsBytes) > 0 {
			if err := json.Unmarshal(detailsBytes, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal details: %w", err)
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
