package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/proxyshop/internal/application/renewal/usecases"
	"github.com/orris-inc/proxyshop/internal/infrastructure/database"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/proxyshop/internal/interfaces/container"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

var (
	env               string
	configPath        string
	output            string
	skipNotifications bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one auto-renew reconciliation",
		Long:  `Send expiry warnings, then renew or deactivate expired proxies, and print the run report.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Report format (json, yaml)")
	cmd.Flags().BoolVar(&skipNotifications, "skip-notifications", false, "Skip the expiry notification pass")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if output != "json" && output != "yaml" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	cfg, log, err := bootstrap.Init(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	c, err := container.New(cfg, database.Get(), log)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := c.AutoRenew.Execute(ctx, usecases.RunOptions{SkipNotifications: skipNotifications})
	if err != nil {
		return fmt.Errorf("auto-renew run failed: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), report, output)
}

func writeReport(w io.Writer, report any, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}
}
