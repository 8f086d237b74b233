package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RoleRequestService mediates self-service role elevation. Requests are
// auditable records: created once, resolved once, immutable after.
type RoleRequestService interface {
	Submit(ctx context.Context, userID, tenantID uuid.UUID, requestedRole models.GlobalRole, reason string) (*models.RoleRequest, error)
	Resolve(ctx context.Context, resolverID, tenantID, requestID uuid.UUID, outcome models.RoleRequestStatus) (*models.RoleRequest, error)
	ListPending(ctx context.Context, resolverID, tenantID uuid.UUID, limit, offset int) ([]*models.RoleRequest, error)
}

type roleRequestService struct {
	requestRepo    repositories.RoleRequestRepository
	membershipRepo repositories.MembershipRepository
	tenantRepo     repositories.TenantRepository
	maturitySvc    MaturityService
	notifier       NotificationService
	auditSvc       AuditService
	submitLocks    *keyedLocks
}

func NewRoleRequestService(requestRepo repositories.RoleRequestRepository, membershipRepo repositories.MembershipRepository,
	tenantRepo repositories.TenantRepository, maturitySvc MaturityService, notifier NotificationService,
	auditSvc AuditService) RoleRequestService {
	return &roleRequestService{
		requestRepo:    requestRepo,
		membershipRepo: membershipRepo,
		tenantRepo:     tenantRepo,
		maturitySvc:    maturitySvc,
		notifier:       notifier,
		auditSvc:       auditSvc,
		submitLocks:    newKeyedLocks(),
	}
}

func submitKey(userID, tenantID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", userID, tenantID)
}

func (s *roleRequestService) Submit(ctx context.Context, userID, tenantID uuid.UUID, requestedRole models.GlobalRole, reason string) (*models.RoleRequest, error) {
	if !models.Requestable(requestedRole) {
		return nil, common.Validation("requested_role", "requested role must be steward or admin")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, common.Validation("reason", "reason is required")
	}

	membership, err := s.membershipRepo.GetByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.Forbidden()
		}
		return nil, err
	}
	// Elevated members already hold or exceed the requestable roles.
	if membership.GlobalRole.Elevated() {
		return nil, common.Forbidden()
	}

	unlock := s.submitLocks.Lock(submitKey(userID, tenantID))
	defer unlock()

	pending, err := s.requestRepo.HasPending(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, common.Conflict("a pending role request already exists")
	}

	request := &models.RoleRequest{
		ID:            uuid.New(),
		UserID:        userID,
		TenantID:      tenantID,
		RequestedRole: requestedRole,
		Reason:        strings.TrimSpace(reason),
		Status:        models.RoleRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.auditSvc.RoleRequestSubmitted(ctx, request)
	s.notifier.RoleRequestSubmitted(ctx, request, s.domainFor(ctx, tenantID))
	return request, nil
}

func (s *roleRequestService) Resolve(ctx context.Context, resolverID, tenantID, requestID uuid.UUID, outcome models.RoleRequestStatus) (*models.RoleRequest, error) {
	if outcome != models.RoleRequestApproved && outcome != models.RoleRequestRejected {
		return nil, common.Validation("outcome", "outcome must be approved or rejected")
	}

	resolver, err := s.membershipRepo.GetByUserAndTenant(ctx, resolverID, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.Forbidden()
		}
		return nil, err
	}
	if !resolver.GlobalRole.HasAdminRights() && resolver.GlobalRole != models.RoleSteward {
		return nil, common.Forbidden()
	}

	request, err := s.requestRepo.GetByID(ctx, tenantID, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("role request")
		}
		return nil, err
	}

	unlock := s.submitLocks.Lock(submitKey(request.UserID, tenantID))
	defer unlock()

	resolved, err := s.requestRepo.Resolve(ctx, tenantID, requestID, resolverID, outcome)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// Already resolved requests report the same as missing ones.
		return nil, common.NotFound("role request")
	}

	if outcome == models.RoleRequestApproved {
		if err := s.membershipRepo.UpdateRole(ctx, request.UserID, tenantID, request.RequestedRole); err != nil {
			return nil, fmt.Errorf("failed to update membership role: %w", err)
		}
		// An approval can raise admin or steward counts past a threshold.
		if _, err := s.maturitySvc.Recalculate(ctx, tenantID); err != nil {
			return nil, fmt.Errorf("failed to re-evaluate maturity: %w", err)
		}
	}

	request, err = s.requestRepo.GetByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.RoleRequestResolved(ctx, request)
	s.notifier.RoleRequestResolved(ctx, request, s.domainFor(ctx, tenantID))
	return request, nil
}

func (s *roleRequestService) ListPending(ctx context.Context, resolverID, tenantID uuid.UUID, limit, offset int) ([]*models.RoleRequest, error) {
	resolver, err := s.membershipRepo.GetByUserAndTenant(ctx, resolverID, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.Forbidden()
		}
		return nil, err
	}
	if !resolver.GlobalRole.HasAdminRights() && resolver.GlobalRole != models.RoleSteward {
		return nil, common.Forbidden()
	}

	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.requestRepo.ListPending(ctx, tenantID, limit, offset)
}

func (s *roleRequestService) domainFor(ctx context.Context, tenantID uuid.UUID) string {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return ""
	}
	return tenant.Domain
}
