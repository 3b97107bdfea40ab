package ui

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/gosimple/slug"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/query"
)

// MarkdownRenderMargin is the left margin used for terminal markdown rendering.
const MarkdownRenderMargin = 2

const noData = "No data available."

// DetailMarkdown formats an object record as markdown with one section per
// part of the record.
func DetailMarkdown(id int64, d *model.DetailResponse) string {
	var b strings.Builder

	title := d.Label
	if title == "" {
		title = fmt.Sprintf("Object %d", id)
	}
	fmt.Fprintf(&b, "# %s\n\n", inline(title))
	fmt.Fprintf(&b, "Object %d\n\n", id)

	b.WriteString("## Summary\n\n")
	if s := d.Summary; s != nil {
		writeTable(&b, []string{"Accession Number", "Date", "Department"},
			[][]string{{s.AccessionNo, s.Date, s.Department}})
		b.WriteString("### Places\n\n")
		writeBullets(&b, s.Places)
	} else {
		b.WriteString("No summary available.\n\n")
	}

	b.WriteString("## Produced By\n\n")
	rows := make([][]string, len(d.Productions))
	for i, p := range d.Productions {
		rows[i] = []string{p.Part, p.AgentName, p.Timespan, p.Nationalities}
	}
	writeTable(&b, []string{"Part", "Name", "Timespan", "Nationalities"}, rows)

	b.WriteString("## Classified As\n\n")
	writeBullets(&b, d.Classifications)

	b.WriteString("## Information\n\n")
	rows = make([][]string, len(d.References))
	for i, r := range d.References {
		rows[i] = []string{r.Type, r.Content}
	}
	writeTable(&b, []string{"Type", "Content"}, rows)

	return b.String()
}

func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString(noData + "\n\n")
		return
	}
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func writeBullets(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString(noData + "\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("- " + inline(item) + "\n")
	}
	b.WriteString("\n")
}

var inlineEscaper = strings.NewReplacer(
	"\\", "\\\\", "*", "\\*", "_", "\\_", "`", "\\`",
	"[", "\\[", "]", "\\]", "<", "&lt;", ">", "&gt;", "#", "\\#",
)

// inline escapes text for use inside a markdown line.
func inline(s string) string {
	return inlineEscaper.Replace(strings.Join(strings.Fields(s), " "))
}

// cell escapes text for use inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(inline(s), "|", "\\|")
	if s == "" {
		return " "
	}
	return s
}

// RenderMarkdown renders markdown content for terminal display. Without
// color the output is plain text with no escape sequences.
func RenderMarkdown(content string, width int, color bool) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	style, profile := luxMarkdownStyle(), termenv.TrueColor
	if !color {
		style, profile = styles.NoTTYStyleConfig, termenv.Ascii
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(width-MarkdownRenderMargin),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// RenderHTML renders markdown content as a standalone HTML page.
func RenderHTML(title, content string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(content), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// DetailFileName names an exported detail record, e.g. "7-harbor-at-dusk.md".
func DetailFileName(id int64, label, ext string) string {
	name := fmt.Sprintf("%d", id)
	if s := slug.Make(label); s != "" && label != query.MissingLabel {
		name += "-" + s
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

func luxMarkdownStyle() ansi.StyleConfig {
	muted := mdStringPtr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = mdStringPtr(color)
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         mdUintPtr(MarkdownRenderMargin),
		},
		Paragraph: ansi.StyleBlock{},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: accent, Bold: mdBoolPtr(true)},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Underline: mdBoolPtr(true)},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
		},
		List: ansi.StyleList{LevelIndent: 2},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		Strong: ansi.StylePrimitive{Bold: mdBoolPtr(true)},
		Emph:   ansi.StylePrimitive{Italic: mdBoolPtr(true)},
		Table: ansi.StyleTable{
			StyleBlock:      ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{}},
			CenterSeparator: mdStringPtr("┼"),
			ColumnSeparator: mdStringPtr("│"),
			RowSeparator:    mdStringPtr("─"),
		},
	}
}

func mdBoolPtr(v bool) *bool { return &v }

func mdStringPtr(v string) *string { return &v }

func mdUintPtr(v uint) *uint { return &v }
