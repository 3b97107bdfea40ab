package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/luxcatalog/lux/internal/config"
	"github.com/luxcatalog/lux/internal/logging"
	"github.com/luxcatalog/lux/internal/ui"
)

// app carries the state of one command invocation.
type app struct {
	configPath string
	jsonOutput bool
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the lux command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the lux command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "lux",
		Short: "Lux - browse a museum catalog",
		Long: `Lux serves a catalog of museum objects over TCP and browses it from the
command line. Start a server with 'lux serve', then search it with 'lux list'
and inspect single objects with 'lux show'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file")
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (for script use)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		a.newServeCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newDBCmd(),
		a.newConfigCmd(),
		a.newVersionCmd(),
	)
	return rootCmd
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	logger, err := logging.New(logging.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Color:  cfg.Log.Color,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	ui.ConfigureTheme(cfg.UI.Accent)
	return nil
}
