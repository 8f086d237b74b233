package services

import (
	"context"
	"log"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
)

// AuditService records governance actions. A failed write is logged rather
// than returned: the audit trail must never veto the action it records.
type AuditService interface {
	TenantPromoted(ctx context.Context, tenantID uuid.UUID, forced bool, actorID *uuid.UUID)
	ThresholdsUpdated(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID)
	DomainApprovalChanged(ctx context.Context, tenantID uuid.UUID, domain string, status models.DomainApprovalStatus, actorID *uuid.UUID)
	RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest)
	RoleRequestResolved(ctx context.Context, request *models.RoleRequest)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type auditService struct {
	auditRepo repositories.AuditLogsRepository
}

func NewAuditService(auditRepo repositories.AuditLogsRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) record(ctx context.Context, entry *models.AuditLog) {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("WARN: failed to write audit log %s for tenant %s: %v", entry.Action, entry.TenantID, err)
	}
}

func (s *auditService) TenantPromoted(ctx context.Context, tenantID uuid.UUID, forced bool, actorID *uuid.UUID) {
	action := models.AuditTenantPromoted
	if forced {
		action = models.AuditTenantForced
	}
	s.record(ctx, &models.AuditLog{
		TenantID: tenantID,
		Action:   action,
		RecordID: tenantID.String(),
		Details:  map[string]any{"forced": forced},
		ActorID:  actorID,
	})
}

func (s *auditService) ThresholdsUpdated(ctx context.Context, tenantID uuid.UUID, ageDays, users, admins int, actorID *uuid.UUID) {
	s.record(ctx, &models.AuditLog{
		TenantID: tenantID,
		Action:   models.AuditThresholdsUpdated,
		RecordID: tenantID.String(),
		Details: map[string]any{
			"age_days_threshold": ageDays,
			"user_threshold":     users,
			"admin_threshold":    admins,
		},
		ActorID: actorID,
	})
}

func (s *auditService) DomainApprovalChanged(ctx context.Context, tenantID uuid.UUID, domain string, status models.DomainApprovalStatus, actorID *uuid.UUID) {
	s.record(ctx, &models.AuditLog{
		TenantID: tenantID,
		Action:   models.AuditDomainApproval,
		RecordID: domain,
		Details:  map[string]any{"status": string(status)},
		ActorID:  actorID,
	})
}

func (s *auditService) RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest) {
	s.record(ctx, &models.AuditLog{
		TenantID: request.TenantID,
		Action:   models.AuditRequestSubmitted,
		RecordID: request.ID.String(),
		Details: map[string]any{
			"user_id":        request.UserID.String(),
			"requested_role": string(request.RequestedRole),
		},
	})
}

func (s *auditService) RoleRequestResolved(ctx context.Context, request *models.RoleRequest) {
	entry := &models.AuditLog{
		TenantID: request.TenantID,
		Action:   models.AuditRequestResolved,
		RecordID: request.ID.String(),
		Details: map[string]any{
			"user_id":        request.UserID.String(),
			"requested_role": string(request.RequestedRole),
			"status":         string(request.Status),
		},
		ActorID: request.ResolvedBy,
	}
	s.record(ctx, entry)
}

func (s *auditService) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.auditRepo.ListByTenant(ctx, tenantID, limit, offset)
}
