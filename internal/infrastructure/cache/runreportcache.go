package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
)

const (
	runReportKey = "proxyshop:autorenew:last"
	runReportTTL = 24 * time.Hour
)

// RunReportCache keeps the latest auto-renew report in Redis.
type RunReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRunReportCache(client *redis.Client) *RunReportCache {
	return &RunReportCache{
		client: client,
		ttl:    runReportTTL,
	}
}

func (c *RunReportCache) Save(ctx context.Context, report *dto.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if err := c.client.Set(ctx, runReportKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store run report: %w", err)
	}
	return nil
}

// Last returns nil, nil when no report is cached.
func (c *RunReportCache) Last(ctx context.Context) (*dto.RunReport, error) {
	data, err := c.client.Get(ctx, runReportKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load run report: %w", err)
	}

	var report dto.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode run report: %w", err)
	}
	return &report, nil
}
