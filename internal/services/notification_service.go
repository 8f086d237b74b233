package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"adrboard/internal/caching"
	"adrboard/internal/models"
)

const notificationQueue = "governance_events"

// Event types consumed by the email/Slack/Teams collaborators.
const (
	EventTenantPromoted       = "tenant.promoted"
	EventRoleRequestSubmitted = "role_request.submitted"
	EventRoleRequestResolved  = "role_request.resolved"
)

type governanceEvent struct {
	Type       string    `json:"type"`
	TenantID   string    `json:"tenant_id"`
	Domain     string    `json:"domain,omitempty"`
	Forced     bool      `json:"forced,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationService publishes fire-and-forget governance events. Delivery
// failure is logged and never surfaced: a lost notification must not roll
// back the state transition that produced it.
type NotificationService interface {
	TenantPromoted(ctx context.Context, tenant *models.Tenant, forced bool)
	RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest, domain string)
	RoleRequestResolved(ctx context.Context, request *models.RoleRequest, domain string)
}

type notificationService struct {
	cacheSvc   caching.CacheService
	webhookURL string
	httpClient *http.Client
}

// NewNotificationService creates a notification service. webhookURL may be
// empty, in which case events are only queued.
func NewNotificationService(cacheSvc caching.CacheService, webhookURL string) NotificationService {
	return &notificationService{
		cacheSvc:   cacheSvc,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *notificationService) TenantPromoted(ctx context.Context, tenant *models.Tenant, forced bool) {
	s.publish(ctx, governanceEvent{
		Type:       EventTenantPromoted,
		TenantID:   tenant.ID.String(),
		Domain:     tenant.Domain,
		Forced:     forced,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *notificationService) RoleRequestSubmitted(ctx context.Context, request *models.RoleRequest, domain string) {
	s.publish(ctx, governanceEvent{
		Type:       EventRoleRequestSubmitted,
		TenantID:   request.TenantID.String(),
		Domain:     domain,
		RequestID:  request.ID.String(),
		UserID:     request.UserID.String(),
		Role:       string(request.RequestedRole),
		OccurredAt: time.Now().UTC(),
	})
}

func (s *notificationService) RoleRequestResolved(ctx context.Context, request *models.RoleRequest, domain string) {
	s.publish(ctx, governanceEvent{
		Type:       EventRoleRequestResolved,
		TenantID:   request.TenantID.String(),
		Domain:     domain,
		RequestID:  request.ID.String(),
		UserID:     request.UserID.String(),
		Role:       string(request.RequestedRole),
		Status:     string(request.Status),
		OccurredAt: time.Now().UTC(),
	})
}

func (s *notificationService) publish(ctx context.Context, event governanceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("WARN: failed to marshal %s event: %v", event.Type, err)
		return
	}

	if err := s.cacheSvc.PushEvent(ctx, notificationQueue, payload); err != nil {
		log.Printf("WARN: failed to queue %s event: %v", event.Type, err)
	}

	if s.webhookURL == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("WARN: failed to build webhook request for %s: %v", event.Type, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("WARN: webhook delivery failed for %s: %v", event.Type, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("WARN: webhook returned %d for %s", resp.StatusCode, event.Type)
	}
}
