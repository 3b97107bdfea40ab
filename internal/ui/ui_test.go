package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luxcatalog/lux/internal/model"
)

func TestNormalizeAccentColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "", ok: false},
		{input: "39", expected: "39", ok: true},
		{input: "  244 ", expected: "244", ok: true},
		{input: "256", ok: false},
		{input: "#7AA2F7", expected: "#7aa2f7", ok: true},
		{input: "#abc", expected: "#aabbcc", ok: true},
		{input: "#zzzzzz", ok: false},
		{input: "blue", ok: false},
	}
	for _, tt := range tests {
		got, ok := normalizeAccentColor(tt.input)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("normalizeAccentColor(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestConfigureTheme(t *testing.T) {
	origAccent, origAccentBold, origColor := Accent, AccentBold, accentColor
	t.Cleanup(func() {
		Accent, AccentBold, accentColor = origAccent, origAccentBold, origColor
	})

	ConfigureTheme("39")
	if got, ok := AccentColor(); !ok || got != "39" {
		t.Fatalf("AccentColor() = %q, %v; want %q, true", got, ok, "39")
	}

	ConfigureTheme("bogus")
	if got, _ := AccentColor(); got != "39" {
		t.Fatalf("invalid accent changed the color to %q", got)
	}

	ConfigureTheme("none")
	if _, ok := AccentColor(); ok {
		t.Fatal("expected accent color to be disabled")
	}
}

func TestColumnWidths(t *testing.T) {
	columns := ListColumns()
	widths := columnWidths(NewDisplayContextWithWidth(120), columns)

	if widths[0] != 8 {
		t.Errorf("ID width = %d, want 8", widths[0])
	}
	if widths[2] > 24 {
		t.Errorf("Date width = %d, exceeds max 24", widths[2])
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	if total+(len(columns)-1)*columnGap > 120 {
		t.Errorf("columns overflow terminal: %v", widths)
	}

	narrow := columnWidths(NewDisplayContextWithWidth(20), columns)
	for i, col := range columns {
		if narrow[i] < col.MinWidth {
			t.Errorf("column %s width %d below min %d", col.Header, narrow[i], col.MinWidth)
		}
	}
}

func TestRenderObjectList(t *testing.T) {
	rows := []model.ObjectSummary{
		{ID: 7, Label: "Harbor", Date: "1890", Agents: "Jane Doe (artist)", Classifiers: "prints"},
		{ID: 12, Label: "Bowl", Date: "1650", Agents: "", Classifiers: "ceramic"},
	}
	out := RenderObjectList(NewDisplayContextWithWidth(160), rows)

	for _, want := range []string{"ID", "Label", "Produced By", "Classified As", "Harbor", "Jane Doe (artist)", "ceramic", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Harbor") > strings.Index(out, "Bowl") {
		t.Error("rows were reordered")
	}
}

func TestListSummaryLine(t *testing.T) {
	if got := ListSummaryLine(1); !strings.HasPrefix(got, "Search produced 1 object.") {
		t.Errorf("ListSummaryLine(1) = %q", got)
	}
	if got := ListSummaryLine(model.MaxListRows); !strings.Contains(got, "capped") {
		t.Errorf("expected cap hint, got %q", got)
	}
}

func sampleDetail() *model.DetailResponse {
	return &model.DetailResponse{
		Summary: &model.DetailSummary{
			AccessionNo: "1961.18.2",
			Date:        "1890",
			Places:      []string{"Boston", "New York"},
			Department:  "Drawings, Prints",
		},
		Label: "Harbor at Dusk",
		Productions: []model.Production{
			{Part: "artist", AgentName: "Jane Doe", Timespan: "1920-1985", Nationalities: "French, American"},
		},
		Classifications: []string{"etching", "prints"},
		References:      []model.Reference{},
	}
}

func TestDetailMarkdown(t *testing.T) {
	md := DetailMarkdown(7, sampleDetail())

	for _, want := range []string{
		"# Harbor at Dusk",
		"| 1961.18.2 | 1890 | Drawings, Prints |",
		"- New York",
		"| artist | Jane Doe | 1920-1985 | French, American |",
		"- etching",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q:\n%s", want, md)
		}
	}

	info := md[strings.Index(md, "## Information"):]
	if !strings.Contains(info, noData) {
		t.Errorf("expected empty references to render %q:\n%s", noData, info)
	}
}

func TestDetailMarkdownEscapesCells(t *testing.T) {
	d := sampleDetail()
	d.References = []model.Reference{{Type: "note", Content: "a | b\nc"}}

	md := DetailMarkdown(7, d)
	if !strings.Contains(md, `| note | a \| b c |`) {
		t.Errorf("expected escaped cell, got:\n%s", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(DetailMarkdown(7, sampleDetail()), 0, false)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "Harbor at Dusk") {
		t.Errorf("expected title in output:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain rendering contains escape sequences: %q", out)
	}
	if strings.HasSuffix(out, "\n\n") || !strings.HasSuffix(out, "\n") {
		t.Errorf("expected a single trailing newline, got %q", out[len(out)-5:])
	}
}

func TestRenderMarkdownColor(t *testing.T) {
	out, err := RenderMarkdown(DetailMarkdown(7, sampleDetail()), 80, true)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("colored rendering has no escape sequences: %q", out)
	}
}

func TestDisplayColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	if !NewDisplayContextWithWidth(80).Color() {
		t.Error("terminal display should allow color")
	}
	if (&DisplayContext{TermWidth: 80}).Color() {
		t.Error("non-terminal display should not allow color")
	}
	t.Setenv("NO_COLOR", "1")
	if NewDisplayContextWithWidth(80).Color() {
		t.Error("NO_COLOR should disable color")
	}
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML("Harbor <at> Dusk", DetailMarkdown(7, sampleDetail()))
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	s := string(page)
	for _, want := range []string{
		"<title>Harbor &lt;at&gt; Dusk</title>",
		"<h1>Harbor at Dusk</h1>",
		"<table>",
		"<td>Jane Doe</td>",
		"<li>etching</li>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestDetailFileName(t *testing.T) {
	tests := []struct {
		id    int64
		label string
		ext   string
		want  string
	}{
		{7, "Harbor at Dusk", "md", "7-harbor-at-dusk.md"},
		{7, "Café Étude", ".html", "7-cafe-etude.html"},
		{8, "N/A", "md", "8.md"},
		{9, "", "html", "9.html"},
	}
	for _, tt := range tests {
		if got := DetailFileName(tt.id, tt.label, tt.ext); got != tt.want {
			t.Errorf("DetailFileName(%d, %q, %q) = %q, want %q", tt.id, tt.label, tt.ext, got, tt.want)
		}
	}
}

func TestSpinnerSilentOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Waiting for server")
	s.Start()
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("expected no output off a terminal, got %q", buf.String())
	}
}

func TestOutputHelpers(t *testing.T) {
	if got := Success("done"); got != "✓ done" {
		t.Errorf("Success() = %q", got)
	}
	if got := Count(3, "object", "objects"); got != "3 objects" {
		t.Errorf("Count() = %q", got)
	}
}
