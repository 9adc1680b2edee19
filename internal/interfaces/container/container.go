// Package container wires the reconciler and its infrastructure for the CLI
// commands.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/proxyshop/internal/application/notification"
	"github.com/orris-inc/proxyshop/internal/application/renewal/usecases"
	"github.com/orris-inc/proxyshop/internal/infrastructure/cache"
	"github.com/orris-inc/proxyshop/internal/infrastructure/config"
	"github.com/orris-inc/proxyshop/internal/infrastructure/email"
	"github.com/orris-inc/proxyshop/internal/infrastructure/provisioning"
	"github.com/orris-inc/proxyshop/internal/infrastructure/repository"
	"github.com/orris-inc/proxyshop/internal/infrastructure/telegram"
	httpRouter "github.com/orris-inc/proxyshop/internal/interfaces/http"
	"github.com/orris-inc/proxyshop/internal/interfaces/http/handlers"
	"github.com/orris-inc/proxyshop/internal/interfaces/http/middleware"
	"github.com/orris-inc/proxyshop/internal/shared/biztime"
	"github.com/orris-inc/proxyshop/internal/shared/db"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
	"github.com/orris-inc/proxyshop/internal/shared/services/markdown"
)

// Container holds the wired application. Redis and ReportCache are nil
// when redis is disabled.
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	ReportCache *cache.RunReportCache
	AutoRenew   *usecases.AutoRenewUseCase
	Deactivator *usecases.ProxyDeactivator
	Logger      logger.Interface
}

// New builds every dependency of the reconciler on top of an open database.
func New(cfg *config.Config, gormDB *gorm.DB, log logger.Interface) (*Container, error) {
	c := &Container{
		Config: cfg,
		DB:     gormDB,
		Logger: log,
	}

	if cfg.Redis.Enabled {
		client, err := newRedisClient(cfg, log)
		if err != nil {
			return nil, err
		}
		c.Redis = client
		c.ReportCache = cache.NewRunReportCache(client)
	}

	orderRepo := repository.NewOrderRepository(gormDB, log.With("component", "repository.order"))
	proxyRepo := repository.NewProxyRepository(gormDB, log.With("component", "repository.proxy"))
	quotaRepo := repository.NewQuotaRepository(gormDB, log.With("component", "repository.quota"))
	walletLedger := repository.NewWalletRepository(gormDB, log.With("component", "repository.wallet"))
	profileRepo := repository.NewProfileRepository(gormDB)
	planRepo := repository.NewPlanRepository(gormDB)
	txManager := db.NewTransactionManager(gormDB)

	gateway := provisioning.NewGateway(
		provisioning.NewClient(cfg.Provisioning),
		cfg.Provisioning.MaxRetries,
		log,
	)

	dispatcher := newDispatcher(cfg, log)

	timeouts := usecases.Timeouts{Call: time.Duration(cfg.Reconciler.CallTimeoutSeconds) * time.Second}
	clock := usecases.Clock(biztime.NowUTC)

	quotaUpdater := usecases.NewQuotaUpdater(quotaRepo, log.With("component", "renewal.quota"))
	c.Deactivator = usecases.NewProxyDeactivator(
		proxyRepo,
		gateway,
		quotaUpdater,
		timeouts,
		clock,
		log.With("component", "renewal.deactivator"),
	)

	notify := usecases.NewNotifyExpiringOrdersUseCase(
		orderRepo,
		proxyRepo,
		profileRepo,
		planRepo,
		walletLedger,
		dispatcher,
		usecases.NotifyWindows{
			Lookahead: time.Duration(cfg.Reconciler.NotifyWindowHours) * time.Hour,
			Dedup:     time.Duration(cfg.Reconciler.NotifyDedupHours) * time.Hour,
		},
		timeouts,
		log.With("component", "renewal.notify"),
	)

	renew := usecases.NewRenewExpiredProxiesUseCase(
		proxyRepo,
		orderRepo,
		walletLedger,
		quotaUpdater,
		c.Deactivator,
		txManager,
		timeouts,
		log.With("component", "renewal.renew"),
	)

	var reports usecases.RunReportStore
	if c.ReportCache != nil {
		reports = c.ReportCache
	}

	c.AutoRenew = usecases.NewAutoRenewUseCase(
		notify,
		renew,
		reports,
		time.Duration(cfg.Cron.RunTimeoutMinutes)*time.Minute,
		clock,
		log.With("component", "renewal.autorenew"),
	)

	return c, nil
}

// NewRouter builds the HTTP surface around the reconciler.
func (c *Container) NewRouter() *httpRouter.Router {
	log := c.Logger.With("component", "http")

	var handler *handlers.AutoRenewHandler
	if c.ReportCache != nil {
		handler = handlers.NewAutoRenewHandler(c.AutoRenew, c.ReportCache, log)
	} else {
		handler = handlers.NewAutoRenewHandler(c.AutoRenew, nil, log)
	}

	var limiter *middleware.RateLimiter
	if c.Redis != nil && c.Config.Cron.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(c.Redis, c.Config.Cron.RateLimitPerMinute, time.Minute, log)
	} else if c.Config.Cron.RateLimitPerMinute > 0 {
		c.Logger.Warnw("cron rate limit configured but redis is disabled, limiter not installed")
	}

	router := httpRouter.NewRouter(handler, c.Config.Cron.Secret, limiter, log)
	router.SetupRoutes()
	return router
}

func (c *Container) Close() error {
	if c.Redis == nil {
		return nil
	}
	return c.Redis.Close()
}

func newRedisClient(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return client, nil
}

func newDispatcher(cfg *config.Config, log logger.Interface) *notification.Dispatcher {
	var emailSender notification.EmailSender
	if cfg.Email.Enabled {
		emailSender = email.NewSMTPEmailService(cfg.Email)
	}

	var telegramSender notification.TelegramSender
	if cfg.Telegram.Enabled {
		telegramSender = telegram.NewBotService(cfg.Telegram)
	}

	if emailSender == nil && telegramSender == nil {
		log.Warnw("no notification channel enabled, expiry warnings will not be delivered")
	}

	return notification.NewDispatcher(emailSender, telegramSender, markdown.NewRenderer(), log)
}
