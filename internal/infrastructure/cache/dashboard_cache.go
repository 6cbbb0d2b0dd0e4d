// Package cache guarda en Redis el resumen del dashboard por tenant.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/kardex-api/internal/application/dto"
)

const keyPrefix = "kardex:dashboard:summary:"

// DashboardCache implementa analytics.SummaryCache sobre Redis.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache ttl <= 0 usa 30s.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DashboardCache{client: client, ttl: ttl}
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func key(tenantID string) string { return keyPrefix + tenantID }

func (c *DashboardCache) Get(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &summary); err != nil {
		// entrada corrupta: se descarta
		_ = c.client.Del(ctx, key(tenantID)).Err()
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &summary, true, nil
}

func (c *DashboardCache) Set(ctx context.Context, tenantID string, summary *dto.DashboardSummaryDTO) error {
	if c == nil || c.client == nil || summary == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, key(tenantID), raw, c.ttl).Err()
}

// Invalidate se llama tras cada movimiento confirmado del tenant.
func (c *DashboardCache) Invalidate(ctx context.Context, tenantID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key(tenantID)).Err()
}
