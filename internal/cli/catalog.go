package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxcatalog/lux/internal/atomicfile"
	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/query"
	"github.com/luxcatalog/lux/internal/ui"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		req     model.ListRequest
		src     sourceFlags
		yamlOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search catalog objects",
		Long: `Lists objects whose fields contain the given text. Filters are
case-insensitive substrings and combine with AND; with no filters every object
matches. At most 1000 objects are shown, ordered by label and then date.

Examples:
  lux list --agent hokusai
  lux list -c print -d 18
  lux list --db catalog.sqlite --label harbor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := a.openSource(cmd, &src)
			if err != nil {
				return a.handleError(out, errorCode(err), err)
			}
			defer s.Close()

			spinner := ui.NewSpinner(cmd.ErrOrStderr(), "Searching "+s.Name()+"...")
			start := time.Now()
			spinner.Start()
			rows, err := s.List(commandContext(cmd), req)
			spinner.Stop()
			elapsed := time.Since(start)
			if err != nil {
				a.logger.Debug("list failed", "source", s.Name(), "error", err)
				return a.handleError(out, errorCode(err), err)
			}

			data := model.ListResponse{Rows: rows}
			switch {
			case a.jsonOutput:
				outputSuccess(out, data, &Meta{Count: len(rows), Source: s.Name(), QueryTimeMs: elapsed.Milliseconds()})
				return nil
			case yamlOut:
				return outputYAML(out, data)
			}

			fmt.Fprintln(out, ui.ListSummaryLine(len(rows)))
			if len(rows) > 0 {
				fmt.Fprintln(out)
				fmt.Fprint(out, ui.RenderObjectList(a.display(out), rows))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Label, "label", "l", "", "Match text in the object label")
	cmd.Flags().StringVarP(&req.Classifier, "classifier", "c", "", "Match text in a classifier name")
	cmd.Flags().StringVarP(&req.Agent, "agent", "a", "", "Match text in a producing agent's name")
	cmd.Flags().StringVarP(&req.Date, "date", "d", "", "Match text in the object date")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output rows as YAML")
	src.register(cmd.Flags())
	return cmd
}

// errObjectNotFound reports a detail lookup with no summary row.
type errObjectNotFound struct {
	id int64
}

func (e *errObjectNotFound) Error() string {
	return fmt.Sprintf("no object found with ID %d", e.id)
}

func (a *app) newShowCmd() *cobra.Command {
	var (
		src     sourceFlags
		yamlOut bool
		htmlOut bool
		saveDir string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the full record of one object",
		Long: `Shows the summary, producing agents, classifiers and references of one
object.

Examples:
  lux show 42
  lux show 42 --html --save exports/
  lux show 42 --db catalog.sqlite --yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return a.handleError(out, ErrInvalidInput, fmt.Errorf("invalid object ID %q", args[0]))
			}

			s, err := a.openSource(cmd, &src)
			if err != nil {
				return a.handleError(out, errorCode(err), err)
			}
			defer s.Close()

			start := time.Now()
			d, err := s.Detail(commandContext(cmd), id)
			if err != nil {
				a.logger.Debug("detail failed", "source", s.Name(), "id", id, "error", err)
				return a.handleError(out, errorCode(err), err)
			}
			if !d.Found() {
				return a.handleError(out, ErrObjectNotFound, &errObjectNotFound{id: id})
			}

			switch {
			case a.jsonOutput && saveDir == "":
				outputSuccess(out, d, &Meta{Count: 1, Source: s.Name(), QueryTimeMs: time.Since(start).Milliseconds()})
				return nil
			case yamlOut:
				return outputYAML(out, d)
			}

			content := ui.DetailMarkdown(id, d)
			if saveDir != "" {
				path, err := saveDetail(saveDir, id, d, content, htmlOut)
				if err != nil {
					return a.handleError(out, ErrFileWriteError, err)
				}
				if a.jsonOutput {
					outputSuccess(out, map[string]any{"id": id, "path": path}, nil)
					return nil
				}
				fmt.Fprintln(out, ui.Successf("Saved object %d to %s", id, path))
				return nil
			}

			if htmlOut {
				page, err := ui.RenderHTML(detailTitle(id, d), content)
				if err != nil {
					return a.handleError(out, ErrInternal, err)
				}
				_, err = out.Write(page)
				return err
			}

			display := a.display(out)
			rendered, err := ui.RenderMarkdown(content, display.TermWidth, display.Color())
			if err != nil {
				fmt.Fprint(out, content)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output the record as YAML")
	cmd.Flags().BoolVar(&htmlOut, "html", false, "Output the record as an HTML page")
	cmd.Flags().StringVar(&saveDir, "save", "", "Write the record to a file in this directory (markdown, or HTML with --html)")
	src.register(cmd.Flags())
	return cmd
}

func detailTitle(id int64, d *model.DetailResponse) string {
	if d.Label == "" || d.Label == query.MissingLabel {
		return fmt.Sprintf("Object %d", id)
	}
	return d.Label
}

// saveDetail writes the record under dir and returns the file path.
func saveDetail(dir string, id int64, d *model.DetailResponse, content string, asHTML bool) (string, error) {
	data, ext := []byte(content), "md"
	if asHTML {
		page, err := ui.RenderHTML(detailTitle(id, d), content)
		if err != nil {
			return "", err
		}
		data, ext = page, "html"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, ui.DetailFileName(id, d.Label, ext))
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// display sizes tables and markdown for out, honoring ui.width from config.
func (a *app) display(out io.Writer) *ui.DisplayContext {
	display := &ui.DisplayContext{TermWidth: ui.DefaultTermWidth}
	if f, ok := out.(*os.File); ok {
		display = ui.NewDisplayContext(f)
	}
	if a.cfg != nil && a.cfg.UI.Width > 0 {
		display.TermWidth = a.cfg.UI.Width
	}
	return display
}

