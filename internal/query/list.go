package query

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/sqlutil"
)

// Per-object agent pairs and classifier names come back from SQLite as
// delimited strings. Control characters keep names containing commas intact.
const (
	itemSep  = "\x1f" // between items, SQL char(31)
	fieldSep = "\x1e" // between name and role, SQL char(30)
)

const listSelect = `
	SELECT
		o.id,
		COALESCE(o.label, ''),
		COALESCE(o.date, ''),
		COALESCE((
			SELECT group_concat(ap.pair, char(31))
			FROM (
				SELECT DISTINCT COALESCE(a2.name, '') || char(30) || COALESCE(p2.part, '') AS pair
				FROM productions p2
				JOIN agents a2 ON a2.id = p2.agt_id
				WHERE p2.obj_id = o.id
			) ap
		), ''),
		COALESCE((
			SELECT group_concat(cn.name, char(31))
			FROM (
				SELECT DISTINCT COALESCE(c2.name, '') AS name
				FROM objects_classifiers oc2
				JOIN classifiers c2 ON c2.id = oc2.cls_id
				WHERE oc2.obj_id = o.id
			) cn
		), '')
	FROM objects o
	LEFT JOIN productions p ON p.obj_id = o.id
	LEFT JOIN agents a ON a.id = p.agt_id
	LEFT JOIN objects_classifiers oc ON oc.obj_id = o.id
	LEFT JOIN classifiers c ON c.id = oc.cls_id
`

// listFilter pairs a request field with the column it constrains.
type listFilter struct {
	column string
	value  string
}

// BuildListSQL builds the list statement for req. Every non-empty filter adds
// a case-insensitive substring condition, bound as a parameter; empty
// filters are left out of the WHERE clause entirely.
func BuildListSQL(req model.ListRequest) (string, []any) {
	filters := []listFilter{
		{column: "o.label", value: req.Label},
		{column: "o.date", value: req.Date},
		{column: "a.name", value: req.Agent},
		{column: "c.name", value: req.Classifier},
	}

	var conditions []string
	var args []any
	for _, f := range filters {
		if f.value == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf(`%s LIKE ? ESCAPE '%s'`, f.column, sqlutil.LikeEscape))
		args = append(args, sqlutil.ContainsPattern(f.value))
	}

	var sb strings.Builder
	sb.WriteString(listSelect)
	if len(conditions) > 0 {
		sb.WriteString("\tWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, `	GROUP BY o.id
	ORDER BY o.label ASC, o.date ASC, o.id ASC
	LIMIT %d
`, model.MaxListRows)

	return sb.String(), args
}

// List returns summaries of the objects matching req, at most
// model.MaxListRows of them, ordered by label then date.
func (e *Executor) List(ctx context.Context, req model.ListRequest) ([]model.ObjectSummary, error) {
	sqlStr, args := BuildListSQL(req)

	rows, err := e.gw.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, storeErr("list", err)
	}
	summaries, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (model.ObjectSummary, error) {
		var s model.ObjectSummary
		var agents, classifiers string
		if err := rows.Scan(&s.ID, &s.Label, &s.Date, &agents, &classifiers); err != nil {
			return model.ObjectSummary{}, err
		}
		s.Agents = formatAgents(agents)
		s.Classifiers = formatClassifiers(classifiers)
		return s, nil
	})
	if err != nil {
		return nil, storeErr("list", err)
	}
	return summaries, nil
}

type agentPart struct {
	name string
	part string
}

// formatAgents turns the raw pair list into "name (role)" entries, sorted by
// name then role and joined with commas.
func formatAgents(raw string) string {
	if raw == "" {
		return ""
	}
	var pairs []agentPart
	for _, item := range strings.Split(raw, itemSep) {
		name, part, _ := strings.Cut(item, fieldSep)
		pairs = append(pairs, agentPart{name: name, part: part})
	}
	slices.SortFunc(pairs, func(x, y agentPart) int {
		if c := cmp.Compare(x.name, y.name); c != 0 {
			return c
		}
		return cmp.Compare(x.part, y.part)
	})
	pairs = slices.Compact(pairs)

	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.name + " (" + p.part + ")"
	}
	return strings.Join(out, ",")
}

func formatClassifiers(raw string) string {
	if raw == "" {
		return ""
	}
	names := strings.Split(raw, itemSep)
	slices.Sort(names)
	return strings.Join(slices.Compact(names), ",")
}
