package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRunReportCache_SaveAndLast(t *testing.T) {
	mr, client := setupMiniredis(t)
	c := NewRunReportCache(client)
	ctx := context.Background()

	last, err := c.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	report := &dto.RunReport{
		Success:   true,
		RunID:     "run-1",
		Timestamp: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC),
		Renewals: dto.RenewalSummary{
			Checked: 2,
			Renewed: 2,
			Results: []dto.RenewalResult{
				{ProxyID: 1, OrderID: 9, Action: dto.ActionRenewed, NewOrderID: 10},
				{ProxyID: 2, OrderID: 9, Action: dto.ActionRenewed, NewOrderID: 10},
			},
		},
	}
	require.NoError(t, c.Save(ctx, report))

	last, err = c.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "run-1", last.RunID)
	assert.Equal(t, 2, last.Renewals.Renewed)
	assert.Len(t, last.Renewals.Results, 2)
	assert.True(t, last.Timestamp.Equal(report.Timestamp))

	assert.Equal(t, runReportTTL, mr.TTL(runReportKey))

	mr.FastForward(runReportTTL + time.Second)
	last, err = c.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRunReportCache_CorruptValue(t *testing.T) {
	mr, client := setupMiniredis(t)
	require.NoError(t, mr.Set(runReportKey, "not-json"))

	_, err := NewRunReportCache(client).Last(context.Background())

	assert.Error(t, err)
}
