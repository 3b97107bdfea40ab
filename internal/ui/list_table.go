package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/luxcatalog/lux/internal/model"
)

// Column is one column of a fixed-width table.
type Column struct {
	Header     string
	WidthRatio float64 // share of the flexible width; 0 means fixed at MinWidth
	MinWidth   int
	MaxWidth   int // 0 means no limit
	AlignRight bool
	Style      lipgloss.Style
}

// ListColumns returns the layout of `lux list` output in the current theme.
func ListColumns() []Column {
	plain := lipgloss.NewStyle()
	return []Column{
		{Header: "ID", MinWidth: 8, AlignRight: true, Style: Accent},
		{Header: "Label", WidthRatio: 0.35, MinWidth: 16, Style: plain},
		{Header: "Date", WidthRatio: 0.12, MinWidth: 8, MaxWidth: 24, Style: plain},
		{Header: "Produced By", WidthRatio: 0.33, MinWidth: 16, Style: plain},
		{Header: "Classified As", WidthRatio: 0.20, MinWidth: 12, Style: Muted},
	}
}

const columnGap = 2

// columnWidths fits columns into the terminal width.
func columnWidths(display *DisplayContext, columns []Column) []int {
	widths := make([]int, len(columns))

	var totalRatio float64
	fixed := 0
	for i, col := range columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			fixed += col.MinWidth
			continue
		}
		totalRatio += col.WidthRatio
	}

	available := display.TermWidth - fixed - (len(columns)-1)*columnGap
	if available < 0 {
		available = 0
	}

	for i, col := range columns {
		if col.WidthRatio == 0 {
			continue
		}
		w := int(float64(available) * col.WidthRatio / totalRatio)
		w = max(w, col.MinWidth)
		if col.MaxWidth > 0 {
			w = min(w, col.MaxWidth)
		}
		widths[i] = w
	}
	return widths
}

// RenderTable renders rows under a header line. Cells wrap within their
// column width.
func RenderTable(display *DisplayContext, columns []Column, rows [][]string) string {
	widths := columnWidths(display, columns)

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}

	tbl := table.New().
		Border(lipgloss.Border{Top: "─", Bottom: "─", Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderHeader(true).
		BorderStyle(Muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			c := columns[col]
			style := c.Style
			if row == table.HeaderRow {
				style = Bold
			}
			style = style.Width(widths[col])
			if c.AlignRight {
				style = style.Align(lipgloss.Right)
			}
			if col < len(columns)-1 {
				style = style.PaddingRight(columnGap)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render() + "\n"
}

// RenderObjectList renders list rows as the `lux list` table.
func RenderObjectList(display *DisplayContext, rows []model.ObjectSummary) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{strconv.FormatInt(r.ID, 10), r.Label, r.Date, r.Agents, r.Classifiers}
	}
	return RenderTable(display, ListColumns(), cells)
}

// ListSummaryLine is the line printed above the list table.
func ListSummaryLine(n int) string {
	line := "Search produced " + Count(n, "object", "objects") + "."
	if n >= model.MaxListRows {
		line += " " + Hint("(results capped, narrow the filters to see more)")
	}
	return line
}
