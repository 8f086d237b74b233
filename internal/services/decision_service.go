package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"adrboard/internal/common"
	"adrboard/internal/models"
	"adrboard/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	attachmentBucket    = "adr-attachments"
	attachmentURLExpiry = 15 * time.Minute
)

type DecisionService interface {
	Create(ctx context.Context, decision *models.Decision) (*models.Decision, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Decision, error)
	Update(ctx context.Context, decision *models.Decision) (*models.Decision, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Decision, error)
	AttachFile(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.Decision, error)
	AttachmentURL(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

type decisionService struct {
	decisionRepo  repositories.DecisionRepository
	attachmentSvc AttachmentService
}

func NewDecisionService(decisionRepo repositories.DecisionRepository, attachmentSvc AttachmentService) DecisionService {
	return &decisionService{
		decisionRepo:  decisionRepo,
		attachmentSvc: attachmentSvc,
	}
}

func (s *decisionService) Create(ctx context.Context, decision *models.Decision) (*models.Decision, error) {
	if err := common.ValidateRequiredString(decision.Title, "title"); err != nil {
		return nil, common.Validation("title", err.Error())
	}
	if decision.Status == "" {
		decision.Status = models.DecisionDraft
	}
	if !decision.Status.Valid() {
		return nil, common.Validation("status", "status must be draft, accepted, or superseded")
	}

	decision.ID = uuid.New()
	if err := s.decisionRepo.Create(ctx, decision); err != nil {
		return nil, fmt.Errorf("failed to create decision: %w", err)
	}
	return s.decisionRepo.GetByID(ctx, decision.TenantID, decision.ID)
}

func (s *decisionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Decision, error) {
	decision, err := s.decisionRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFound("decision")
		}
		return nil, err
	}
	return decision, nil
}

func (s *decisionService) Update(ctx context.Context, decision *models.Decision) (*models.Decision, error) {
	if err := common.ValidateRequiredString(decision.Title, "title"); err != nil {
		return nil, common.Validation("title", err.Error())
	}
	if !decision.Status.Valid() {
		return nil, common.Validation("status", "status must be draft, accepted, or superseded")
	}

	existing, err := s.GetByID(ctx, decision.TenantID, decision.ID)
	if err != nil {
		return nil, err
	}
	decision.AttachmentKey = existing.AttachmentKey

	if err := s.decisionRepo.Update(ctx, decision); err != nil {
		return nil, fmt.Errorf("failed to update decision: %w", err)
	}
	return s.decisionRepo.GetByID(ctx, decision.TenantID, decision.ID)
}

func (s *decisionService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	existing, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if existing.AttachmentKey != nil {
		if err := s.attachmentSvc.Delete(ctx, attachmentBucket, *existing.AttachmentKey); err != nil {
			log.Printf("WARN: failed to delete attachment %s: %v", *existing.AttachmentKey, err)
		}
	}
	return s.decisionRepo.Delete(ctx, tenantID, id)
}

func (s *decisionService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Decision, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.decisionRepo.List(ctx, tenantID, limit, offset)
}

func (s *decisionService) AttachFile(ctx context.Context, tenantID, id uuid.UUID, filename, contentType string, reader io.Reader, size int64) (*models.Decision, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, common.Validation("file", "filename is required")
	}

	decision, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("%s/%s/%s", tenantID, id, filename)
	if err := s.attachmentSvc.Upload(ctx, attachmentBucket, objectName, contentType, reader, size); err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	decision.AttachmentKey = &objectName
	if err := s.decisionRepo.Update(ctx, decision); err != nil {
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}
	return s.decisionRepo.GetByID(ctx, tenantID, id)
}

func (s *decisionService) AttachmentURL(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	decision, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if decision.AttachmentKey == nil {
		return "", common.NotFound("attachment")
	}
	return s.attachmentSvc.GetPresignedURL(ctx, attachmentBucket, *decision.AttachmentKey, attachmentURLExpiry)
}
