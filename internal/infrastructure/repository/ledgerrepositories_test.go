package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/proxyshop/internal/domain/proxy"
	"github.com/orris-inc/proxyshop/internal/domain/quota"
	"github.com/orris-inc/proxyshop/internal/domain/wallet"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/models"
	"github.com/orris-inc/proxyshop/internal/infrastructure/persistence/testdb"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

func TestQuotaRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewQuotaRepository(gdb, logger.NewNop())
	ctx := context.Background()

	t.Run("absent row", func(t *testing.T) {
		q, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, q)
	})

	created, err := repo.Create(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.AvailableConnectionNumber)

	t.Run("increment is additive", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, created.ID, 2))
		q, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), q.AvailableConnectionNumber)
	})

	t.Run("never below zero", func(t *testing.T) {
		err := repo.Increment(ctx, created.ID, -10)
		assert.ErrorIs(t, err, quota.ErrNegativeQuota)

		q, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), q.AvailableConnectionNumber)
	})

	t.Run("set", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, created.ID, 40))
		q, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(40), q.AvailableConnectionNumber)

		assert.ErrorIs(t, repo.Set(ctx, created.ID, -1), quota.ErrNegativeQuota)
	})

	t.Run("unknown row", func(t *testing.T) {
		assert.Error(t, repo.Increment(ctx, 999, 1))
	})
}

func TestQuotaRepository_ConcurrentIncrements(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewQuotaRepository(gdb, logger.NewNop())
	ctx := context.Background()

	q, err := repo.Create(ctx, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Increment(ctx, q.ID, 1))
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.AvailableConnectionNumber)
}

func TestWalletRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewWalletRepository(gdb, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.WalletModel{UserID: 7, Balance: decimal.RequireFromString("15.00")}).Error)

	t.Run("balance of unknown user is zero", func(t *testing.T) {
		b, err := repo.GetBalance(ctx, 8)
		require.NoError(t, err)
		assert.True(t, b.IsZero())
	})

	t.Run("debit", func(t *testing.T) {
		require.NoError(t, repo.Debit(ctx, 7, decimal.RequireFromString("10.00")))
		b, err := repo.GetBalance(ctx, 7)
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.RequireFromString("5")), b.String())
	})

	t.Run("refuses to overdraw", func(t *testing.T) {
		err := repo.Debit(ctx, 7, decimal.RequireFromString("10.00"))
		assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)

		b, err := repo.GetBalance(ctx, 7)
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.RequireFromString("5")), b.String())
	})

	t.Run("missing wallet", func(t *testing.T) {
		assert.ErrorIs(t, repo.Debit(ctx, 8, decimal.NewFromInt(1)), wallet.ErrWalletNotFound)
	})

	t.Run("non positive amount", func(t *testing.T) {
		assert.ErrorIs(t, repo.Debit(ctx, 7, decimal.Zero), wallet.ErrInvalidAmount)
	})
}

func TestWalletRepository_DebitRollsBackWithTransaction(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewWalletRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.WalletModel{UserID: 7, Balance: decimal.RequireFromString("15.00")}).Error)

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.Debit(txCtx, 7, decimal.RequireFromString("10.00")))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	b, err := repo.GetBalance(ctx, 7)
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.RequireFromString("15")), b.String())
}

func TestProxyRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewProxyRepository(gdb, logger.NewNop())
	ctx := context.Background()

	mk := func(orderID uint, status proxy.Status, expiresAt time.Time) *models.ProxyModel {
		m := &models.ProxyModel{
			UserID: 1, OrderID: orderID, Protocol: "http", Host: "10.0.0.1", Port: 8000,
			Status: status.String(), ExpiresAt: expiresAt, ConnectionID: "conn",
		}
		require.NoError(t, gdb.Create(m).Error)
		return m
	}

	p2 := mk(2, proxy.StatusActive, now.Add(-time.Hour))
	p1 := mk(1, proxy.StatusActive, now.Add(-2*time.Hour))
	mk(1, proxy.StatusInactive, now.Add(-2*time.Hour))
	mk(3, proxy.StatusActive, now.Add(time.Hour))
	mk(4, proxy.StatusActive, now)

	expired, err := repo.FindActiveExpiredBefore(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, p1.ID, expired[0].ID(), "ordered by order_id")
	assert.Equal(t, p2.ID, expired[1].ID())

	byOrder, err := repo.FindActiveByOrderID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byOrder, 1, "inactive proxies excluded")
	assert.Equal(t, p1.ID, byOrder[0].ID())

	none, err := repo.FindActiveByOrderID(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, none)

	target := expired[0]
	require.NoError(t, target.Repoint(9, now.Add(7*24*time.Hour), now))
	require.NoError(t, repo.Update(ctx, target))

	reloaded, err := repo.GetByID(ctx, target.ID())
	require.NoError(t, err)
	assert.Equal(t, uint(9), reloaded.OrderID())
	assert.True(t, reloaded.ExpiresAt().Equal(now.Add(7*24*time.Hour)))

	reloaded.Deactivate(now)
	require.NoError(t, repo.Update(ctx, reloaded))
	again, err := repo.GetByID(ctx, target.ID())
	require.NoError(t, err)
	assert.Equal(t, proxy.StatusInactive, again.Status())

	missing, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProfileAndPlanRepositories(t *testing.T) {
	gdb := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.ProfileModel{
		UserID: 7, Email: "a@example.com", NotifyEmail: true, ProxyExpiryAlerts: true,
	}).Error)
	require.NoError(t, gdb.Create(&models.PlanModel{
		Name: "Mobile 7d", ProxyType: "mobile", DurationDays: 7, Price: decimal.RequireFromString("10"),
	}).Error)

	profiles := NewProfileRepository(gdb)
	p, err := profiles.GetByUserID(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a@example.com", p.Email)
	assert.True(t, p.WantsEmail())

	none, err := profiles.GetByUserID(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, none)

	plans := NewPlanRepository(gdb)
	pl, err := plans.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, pl)
	assert.Equal(t, "Mobile 7d", pl.Name)
	assert.Equal(t, 7, pl.DurationDays)
}
