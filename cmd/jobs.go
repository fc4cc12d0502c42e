// -- cmd/jobs.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/outreach-cli/internal/campaign"
	"github.com/xkilldash9x/outreach-cli/internal/config"
	"github.com/xkilldash9x/outreach-cli/internal/forms"
	"github.com/xkilldash9x/outreach-cli/internal/observability"
	"github.com/xkilldash9x/outreach-cli/internal/profile"
	"github.com/xkilldash9x/outreach-cli/internal/results"
)

// newJobsCmd creates and configures the `jobs` command.
func newJobsCmd() *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Applies to Easy Apply listings from a job search",
		Long: `Walks a job search result list, opening each listing and driving the
multi-step application form with answers from the configured profile.
Labels with no profile answer are recorded back into the config so the
next run can fill them. Results land in a CSV under the data directory.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("jobs.search_url", cmd.Flags().Lookup("search-url")); err != nil {
				return err
			}
			if err := viper.BindPFlag("jobs.keywords", cmd.Flags().Lookup("keywords")); err != nil {
				return err
			}
			if err := viper.BindPFlag("jobs.location", cmd.Flags().Lookup("location")); err != nil {
				return err
			}
			if err := viper.BindPFlag("jobs.max_applications", cmd.Flags().Lookup("max")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			// Bind all other flags that don't have a direct mapping.
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Jobs.SearchURL == "" && cfg.Jobs.Keywords == "" {
				return fmt.Errorf("a job search is required (--search-url, or --keywords with an optional --location)")
			}

			outputPath := viper.GetString("output")
			if outputPath == "" {
				outputPath = filepath.Join(cfg.DataDir, "applications.csv")
			}

			logger.Info("Starting job application campaign",
				zap.String("search_url", cfg.Jobs.SearchURL),
				zap.String("keywords", cfg.Jobs.Keywords),
				zap.Int("max_applications", cfg.Jobs.MaxApplications),
				zap.String("output", outputPath),
			)

			sink, err := results.OpenCSVSink(outputPath, logger)
			if err != nil {
				return fmt.Errorf("failed to open results file: %w", err)
			}

			store := profile.NewStore(profile.Record(cfg.Profile), persistProfileKey(cfg), logger)
			resolver := forms.NewResolver(store, logger)

			components, err := initializeRuntime(ctx, cfg, logger)
			if err != nil {
				if components != nil {
					components.Shutdown()
				}
				return err
			}
			defer components.Shutdown()

			engine := campaign.NewJobEngine(components.Session, cfg, components.Clock, components.Retrier, resolver, sink, logger)
			stats, err := engine.Run(ctx)

			fmt.Printf("\nJob campaign finished: %d discovered, %d submitted, %d failed, %d pages\n",
				stats.Discovered, stats.Submitted, stats.Failed, stats.Pages)
			fmt.Printf("Results written to %s\n", outputPath)

			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("Campaign aborted by user signal")
					return fmt.Errorf("campaign aborted by user signal")
				}
				logger.Error("Job campaign failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	jobsCmd.Flags().StringP("search-url", "u", "", "Job search result URL to walk. (Overrides config/env)")
	jobsCmd.Flags().StringP("keywords", "k", "", "Search keywords, used when no search URL is given. (Overrides config/env)")
	jobsCmd.Flags().StringP("location", "l", "", "Search location to pair with --keywords. (Overrides config/env)")
	jobsCmd.Flags().Int("max", 0, "Maximum submitted applications this run, 0 for unlimited. (Overrides config/env)")
	jobsCmd.Flags().StringP("output", "o", "", "CSV file for application results (default <data_dir>/applications.csv).")
	jobsCmd.Flags().Bool("headless", false, "Run the browser headless. (Overrides config/env)")

	return jobsCmd
}

// persistProfileKey records a newly seen form label as an empty profile key
// so the user can fill the answer in before the next run.
func persistProfileKey(cfg *config.Config) profile.PersistFunc {
	return func(key string) error {
		viper.Set("profile."+key, "")
		if viper.ConfigFileUsed() != "" {
			return viper.WriteConfig()
		}
		return viper.WriteConfigAs(filepath.Join(cfg.DataDir, "config.yaml"))
	}
}
