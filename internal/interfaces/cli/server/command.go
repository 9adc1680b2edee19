package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/orris-inc/proxyshop/internal/infrastructure/database"
	"github.com/orris-inc/proxyshop/internal/infrastructure/migration"
	"github.com/orris-inc/proxyshop/internal/infrastructure/scheduler"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/proxyshop/internal/interfaces/container"
	"github.com/orris-inc/proxyshop/internal/shared/constants"
	"github.com/orris-inc/proxyshop/internal/shared/goroutine"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

var (
	env                string
	configPath         string
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Serve the cron trigger endpoints and, when cron.schedule is set, run the auto-renew job in-process.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create or alter tables with gorm AutoMigrate on startup (development only)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, log, err := bootstrap.Init(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	c, err := container.New(cfg, database.Get(), log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer c.Close()

	var schedulerManager *scheduler.SchedulerManager
	if cfg.Cron.Schedule != "" {
		schedulerManager, err = scheduler.NewSchedulerManager(log.With("component", "scheduler"))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		runTimeout := time.Duration(cfg.Cron.RunTimeoutMinutes) * time.Minute
		if err := schedulerManager.RegisterAutoRenewJob(cfg.Cron.Schedule, runTimeout, scheduler.BatchJobFunc(c.AutoRenew.Run)); err != nil {
			return err
		}
		schedulerManager.Start()
	}

	router := c.NewRouter()

	srv := &http.Server{
		Addr:        cfg.Server.GetAddr(),
		Handler:     router.GetEngine(),
		ReadTimeout: 15 * time.Second,
		// a full reconciliation runs inside the cron request
		WriteTimeout: time.Duration(cfg.Cron.RunTimeoutMinutes)*time.Minute + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Infow("shutting down server...")
	case err := <-serverErr:
		log.Errorw("server failed", "error", err)
		stopScheduler(schedulerManager, log)
		return fmt.Errorf("failed to start server: %w", err)
	}

	stopScheduler(schedulerManager, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func stopScheduler(m *scheduler.SchedulerManager, log logger.Interface) {
	if m == nil {
		return
	}
	if err := m.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}
}

func handleMigrations(log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if autoMigrate {
		if env == constants.EnvProduction {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}

		log.Infow("running auto-migration")
		if err := migration.MigrateWithGormAutoMigrate(database.Get(), log); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		log.Infow("auto-migration completed successfully")
		return nil
	}

	strategy := migration.NewGooseStrategy("mysql", migration.DefaultScriptsPath, log)
	version, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}

	log.Infow("current migration version", "version", version)
	return nil
}
