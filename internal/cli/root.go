// Package cli contains the cookup command line: meal lookups against the
// configured sources, database migrations and the gateway server.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cookup/gateway/config"
	"github.com/cookup/gateway/internal/logging"
)

var version = "dev"

type rootOptions struct {
	logLevel    string
	primaryURL  string
	fallbackURL string
	logger      *log.Logger
}

// NewRootCommand builds the cookup command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cookup",
		Short: "CookUp gateway and meal lookup tool",
		Long: `cookup runs the CookUp backend-for-frontend gateway and queries the
meal sources it fronts from the terminal.

Example usage:
  cookup search chicken --cuisine Italian   # Search with fallback to TheMealDB
  cookup meal 52772                         # Show one meal with ingredients
  cookup migrate                            # Create or update the tables
  cookup serve                              # Run the HTTP gateway`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := opts.logLevel
			if level == "" {
				level = os.Getenv("LOG_LEVEL")
			}
			opts.logger = logging.New(cmd.ErrOrStderr(), level)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (default LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&opts.primaryURL, "primary-url", "", "primary backend URL (overrides PRIMARY_API_URL)")
	root.PersistentFlags().StringVar(&opts.fallbackURL, "fallback-url", "", "fallback catalog URL (overrides FALLBACK_API_URL)")

	root.AddCommand(
		newSearchCommand(opts),
		newMealCommand(opts),
		newMigrateCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// Execute runs the command line with ctx cancelled on interrupt by the caller
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// SetVersion sets the version string reported by --version
func SetVersion(v string) {
	version = v
}

// clientConfig loads the configuration for source lookups and applies the URL flags
func (o *rootOptions) clientConfig() (*config.Config, error) {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, err
	}
	o.applyOverrides(cfg)
	return cfg, nil
}

func (o *rootOptions) applyOverrides(cfg *config.Config) {
	if o.primaryURL != "" {
		cfg.PrimaryAPIURL = o.primaryURL
	}
	if o.fallbackURL != "" {
		cfg.FallbackAPIURL = o.fallbackURL
	}
}
