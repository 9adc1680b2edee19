package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

func TestSchedulerManager_RegisterAutoRenewJob(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := BatchJobFunc(func(ctx context.Context) (int, error) { return 0, nil })

	require.NoError(t, m.RegisterAutoRenewJob("0 3 * * *", time.Minute, job))

	jobs := m.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "auto-renew", jobs[0].Name())
	assert.ElementsMatch(t, []string{"renewal", "auto-renew"}, jobs[0].Tags())

	m.Start()
	assert.True(t, m.IsStarted())

	next, err := jobs[0].NextRun()
	require.NoError(t, err)
	assert.Equal(t, 3, next.Hour())

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}

func TestSchedulerManager_RejectsBadSchedules(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job := BatchJobFunc(func(ctx context.Context) (int, error) { return 0, nil })

	assert.Error(t, m.RegisterAutoRenewJob("", time.Minute, job))
	assert.Error(t, m.RegisterAutoRenewJob("not a cron", time.Minute, job))
	assert.Empty(t, m.Jobs())
}

func TestSchedulerManager_RunAutoRenewPassesDeadline(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	var sawDeadline bool
	job := BatchJobFunc(func(ctx context.Context) (int, error) {
		_, sawDeadline = ctx.Deadline()
		return 0, errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.runAutoRenew(ctx, job)

	assert.True(t, sawDeadline)
}
