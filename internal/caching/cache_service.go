package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"adrboard/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent. Callers fall through to the
// database on a miss.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	// Domain approval status caching
	GetDomainStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error)
	SetDomainStatus(ctx context.Context, domain string, status models.DomainApprovalStatus, ttl time.Duration) error
	DeleteDomainStatus(ctx context.Context, domain string) error

	// Tenant snapshot caching
	GetTenant(ctx context.Context, domain string) (*models.Tenant, error)
	SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	DeleteTenant(ctx context.Context, domain string) error

	// Event queue used by the notification service
	PushEvent(ctx context.Context, queue string, payload []byte) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as plain host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsedAddr = strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func domainStatusKey(domain string) string {
	return fmt.Sprintf("domain_status:%s", domain)
}

func tenantKey(domain string) string {
	return fmt.Sprintf("tenant:%s", domain)
}

func (s *redisCacheService) GetDomainStatus(ctx context.Context, domain string) (models.DomainApprovalStatus, error) {
	val, err := s.client.Get(ctx, domainStatusKey(domain)).Result()
	if errors.Is(err, redis.Nil) {
		return models.DomainUnknown, ErrCacheMiss
	}
	if err != nil {
		return models.DomainUnknown, err
	}
	status := models.DomainApprovalStatus(val)
	if !status.Valid() {
		return models.DomainUnknown, ErrCacheMiss
	}
	return status, nil
}

func (s *redisCacheService) SetDomainStatus(ctx context.Context, domain string, status models.DomainApprovalStatus, ttl time.Duration) error {
	return s.client.Set(ctx, domainStatusKey(domain), string(status), ttl).Err()
}

func (s *redisCacheService) DeleteDomainStatus(ctx context.Context, domain string) error {
	return s.client.Del(ctx, domainStatusKey(domain)).Err()
}

func (s *redisCacheService) GetTenant(ctx context.Context, domain string) (*models.Tenant, error) {
	val, err := s.client.Get(ctx, tenantKey(domain)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	tenant := &models.Tenant{}
	if err := json.Unmarshal(val, tenant); err != nil {
		return nil, ErrCacheMiss
	}
	return tenant, nil
}

func (s *redisCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	payload, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tenantKey(tenant.Domain), payload, ttl).Err()
}

func (s *redisCacheService) DeleteTenant(ctx context.Context, domain string) error {
	return s.client.Del(ctx, tenantKey(domain)).Err()
}

func (s *redisCacheService) PushEvent(ctx context.Context, queue string, payload []byte) error {
	return s.client.RPush(ctx, queue, payload).Err()
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
