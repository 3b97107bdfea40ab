package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/luxcatalog/lux/internal/config"
	"github.com/luxcatalog/lux/internal/ui"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the lux configuration file",
	}
	cmd.AddCommand(a.newConfigInitCmd(), a.newConfigShowCmd())
	return cmd
}

func (a *app) resolvedConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.DefaultPath()
}

func (a *app) newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := a.resolvedConfigPath()

			created, err := config.CreateDefault(path)
			if err != nil {
				return a.handleError(out, ErrFileWriteError, err)
			}
			if a.jsonOutput {
				outputSuccess(out, map[string]any{"path": path, "created": created}, nil)
				return nil
			}
			if !created {
				fmt.Fprintln(out, ui.Warning("Config already exists at "+path))
				return nil
			}
			fmt.Fprintln(out, ui.Successf("Wrote %s", path))
			return nil
		},
	}
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration after the config file, .env and LUX_*
environment variables have been applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return a.handleError(out, ErrConfigInvalid, err)
			}
			if a.jsonOutput {
				outputSuccess(out, cfg, nil)
				return nil
			}
			return toml.NewEncoder(out).Encode(cfg)
		},
	}
}
