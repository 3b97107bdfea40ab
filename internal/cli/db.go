package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/luxcatalog/lux/internal/catalog"
	"github.com/luxcatalog/lux/internal/ui"
)

func (a *app) newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage catalog stores",
	}
	cmd.AddCommand(a.newDBInitCmd(), a.newDBStatsCmd())
	return cmd
}

// storePath is args[0] when given, otherwise store.path from config.
func (a *app) storePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.Store.Path
}

func (a *app) newDBInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty catalog store",
		Long: `Creates a SQLite store with the catalog schema. An existing store is
left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := a.storePath(args)

			_, statErr := os.Stat(path)
			existed := statErr == nil

			db, err := catalog.Create(path)
			if err != nil {
				return a.handleError(out, ErrDatabaseError, err)
			}
			if err := db.Close(); err != nil {
				return a.handleError(out, ErrDatabaseError, err)
			}

			if a.jsonOutput {
				outputSuccess(out, map[string]any{"path": path, "created": !existed}, nil)
				return nil
			}
			if existed {
				fmt.Fprintln(out, ui.Warning(fmt.Sprintf("Store already exists at %s; schema checked", path)))
				return nil
			}
			fmt.Fprintln(out, ui.Successf("Created catalog store at %s", path))
			return nil
		},
	}
}

func (a *app) newDBStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Show row counts of a catalog store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := a.storePath(args)

			db, err := catalog.Open(path)
			if err != nil {
				code := ErrDatabaseError
				if errors.Is(err, catalog.ErrStoreNotFound) {
					code = ErrStoreNotFound
				}
				return a.handleError(out, code, err)
			}
			defer db.Close()

			counts, err := db.Stats(commandContext(cmd))
			if err != nil {
				return a.handleError(out, ErrDatabaseError, err)
			}

			if a.jsonOutput {
				outputSuccess(out, map[string]any{"path": path, "tables": counts}, &Meta{Count: len(counts)})
				return nil
			}

			rows := make([][]string, len(counts))
			for i, c := range counts {
				rows[i] = []string{c.Table, strconv.FormatInt(c.Rows, 10)}
			}
			columns := []ui.Column{
				{Header: "Table", WidthRatio: 3, MinWidth: 10, Style: ui.Bold},
				{Header: "Rows", WidthRatio: 1, MinWidth: 6, AlignRight: true, Style: ui.Muted},
			}
			fmt.Fprintln(out, ui.Header(path))
			fmt.Fprint(out, ui.RenderTable(ui.NewDisplayContextWithWidth(40), columns, rows))
			return nil
		},
	}
}
