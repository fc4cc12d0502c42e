// -- cmd/connections.go --
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/campaign"
	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/observability"
)

// newConnectionsCmd creates and configures the `connections` command.
func newConnectionsCmd() *cobra.Command {
	connectionsCmd := &cobra.Command{
		Use:   "connections",
		Short: "Sends connection requests to the results of a people search",
		Long: `Walks a people search result list page by page, sending connection
requests inline and opening Follow-only profiles in background tabs to
connect from the profile page instead. Stops at the configured quota.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their viper keys so command-line values override
			// the config file and environment with the right precedence.
			if err := viper.BindPFlag("connection.search_url", cmd.Flags().Lookup("search-url")); err != nil {
				return err
			}
			if err := viper.BindPFlag("connection.max_connections", cmd.Flags().Lookup("max")); err != nil {
				return err
			}
			if err := viper.BindPFlag("connection.max_tabs", cmd.Flags().Lookup("tabs")); err != nil {
				return err
			}
			return viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Use the context passed from Execute (signal-aware).
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Connection.SearchURL == "" {
				return fmt.Errorf("a people search URL is required (--search-url or connection.search_url)")
			}

			logger.Info("Starting connection campaign",
				zap.String("search_url", cfg.Connection.SearchURL),
				zap.Int("max_connections", cfg.Connection.MaxConnections),
				zap.Int("max_tabs", cfg.Connection.MaxTabs),
			)

			components, err := initializeRuntime(ctx, cfg, logger)
			if err != nil {
				if components != nil {
					components.Shutdown()
				}
				return err
			}
			defer components.Shutdown()

			engine := campaign.NewEngine(components.Session, cfg, components.Clock, components.Retrier, logger)
			stats, err := engine.Run(ctx)

			// Report whatever was accomplished even when the run was cut short.
			fmt.Printf("\nConnection campaign finished: %d requested, %d profiles opened, %d pages\n",
				stats.Requested, stats.ProfilesOpened, stats.Pages)

			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("Campaign aborted by user signal")
					return fmt.Errorf("campaign aborted by user signal")
				}
				logger.Error("Connection campaign failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	connectionsCmd.Flags().StringP("search-url", "u", "", "People search result URL to walk. (Overrides config/env)")
	connectionsCmd.Flags().Int("max", 0, "Maximum connection requests this run, 0 for unlimited. (Overrides config/env)")
	connectionsCmd.Flags().Int("tabs", 0, "Maximum background profile tabs held open at once. (Overrides config/env)")
	connectionsCmd.Flags().Bool("headless", false, "Run the browser headless. (Overrides config/env)")

	return connectionsCmd
}
