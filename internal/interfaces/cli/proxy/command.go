package proxy

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/infrastructure/database"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/proxyshop/internal/interfaces/container"
	"github.com/orris-inc/proxyshop/internal/shared/logger"
)

var (
	env        string
	configPath string
	proxyID    uint
	keepQuota  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Proxy maintenance tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newDeactivateCommand())
	return cmd
}

func newDeactivateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate one proxy",
		Long:  `Revoke the proxy's upstream accesses, mark it inactive and return one unit of quota.`,
		RunE:  runDeactivate,
	}

	cmd.Flags().UintVar(&proxyID, "id", 0, "Proxy ID (required)")
	cmd.Flags().BoolVar(&keepQuota, "keep-quota", false, "Do not return the quota unit")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runDeactivate(cmd *cobra.Command, args []string) error {
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

	report, err := c.Deactivator.DeactivateByID(context.Background(), proxyID, !keepQuota)
	if err != nil {
		return fmt.Errorf("failed to deactivate proxy %d: %w", proxyID, err)
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report *dto.DeactivationReport) {
	fmt.Fprintf(w, "Proxy %d deactivated (quota returned: %t)\n", report.ProxyID, report.QuotaReturned)
	if report.UpstreamError != "" {
		fmt.Fprintf(w, "Upstream cleanup incomplete: %s\n", report.UpstreamError)
	}
	if len(report.Upstream) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCESS\tDELETED\tATTEMPTS\tERROR")
	for _, r := range report.Upstream {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%s\n", r.AccessID, r.Deleted, r.Attempts, r.Error)
	}
	tw.Flush()
}
