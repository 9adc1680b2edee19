package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/proxyshop/internal/interfaces/cli/migrate"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/proxy"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/reconcile"
	"github.com/orris-inc/proxyshop/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "proxyshop",
		Short:        "Proxyshop - proxy subscription renewal service",
		Long:         `Proxyshop renews or retires expired proxy subscriptions, warns customers before expiry, and manages its database schema.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		reconcile.NewCommand(),
		proxy.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
