package query

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/luxcatalog/lux/internal/model"
	"github.com/luxcatalog/lux/internal/sqlutil"
)

// MissingLabel is reported when an object has no label.
const MissingLabel = "N/A"

const summarySQL = `
	SELECT o.accession_no, o.date, pl.label, d.name
	FROM objects o
	LEFT JOIN objects_places op ON op.obj_id = o.id
	LEFT JOIN places pl ON pl.id = op.pl_id
	LEFT JOIN objects_departments od ON od.obj_id = o.id
	LEFT JOIN departments d ON d.id = od.dep_id
	WHERE o.id = ?
`

const labelSQL = `SELECT label FROM objects WHERE id = ?`

// Rows come back in association order so nationalities keep the order in
// which they were attached to the agent.
const productionsSQL = `
	SELECT COALESCE(p.part, ''), COALESCE(a.name, ''), a.begin_date, a.end_date, n.descriptor
	FROM productions p
	JOIN agents a ON a.id = p.agt_id
	LEFT JOIN agents_nationalities an ON an.agt_id = a.id
	LEFT JOIN nationalities n ON n.id = an.nat_id
	WHERE p.obj_id = ?
	ORDER BY p.rowid, an.rowid
`

const classificationsSQL = `
	SELECT DISTINCT COALESCE(c.name, '')
	FROM objects_classifiers oc
	JOIN classifiers c ON c.id = oc.cls_id
	WHERE oc.obj_id = ?
	ORDER BY 1 ASC
`

const referencesSQL = `
	SELECT COALESCE(r.type, ''), COALESCE(r.content, '')
	FROM "references" r
	WHERE r.obj_id = ?
	ORDER BY r.type ASC, r.content ASC
`

// Detail assembles the full record of one object. If the object does not
// exist the response has a nil Summary and no other stage runs.
func (e *Executor) Detail(ctx context.Context, id int64) (*model.DetailResponse, error) {
	summary, err := e.summary(ctx, id)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return &model.DetailResponse{
			Productions:     []model.Production{},
			Classifications: []string{},
			References:      []model.Reference{},
		}, nil
	}

	label, err := e.label(ctx, id)
	if err != nil {
		return nil, err
	}
	productions, err := e.productions(ctx, id)
	if err != nil {
		return nil, err
	}
	classifications, err := e.classifications(ctx, id)
	if err != nil {
		return nil, err
	}
	references, err := e.references(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.DetailResponse{
		Summary:         summary,
		Label:           label,
		Productions:     productions,
		Classifications: classifications,
		References:      references,
	}, nil
}

func (e *Executor) summary(ctx context.Context, id int64) (*model.DetailSummary, error) {
	rows, err := e.gw.QueryContext(ctx, summarySQL, id)
	if err != nil {
		return nil, storeErr("summary", err)
	}
	defer rows.Close()

	var summary *model.DetailSummary
	var places, departments []string
	for rows.Next() {
		var accessionNo, date, place, department sql.NullString
		if err := rows.Scan(&accessionNo, &date, &place, &department); err != nil {
			return nil, storeErr("summary", err)
		}
		if summary == nil {
			summary = &model.DetailSummary{
				AccessionNo: sqlutil.NullString(accessionNo),
				Date:        sqlutil.NullString(date),
			}
		}
		places = append(places, sqlutil.NullString(place))
		departments = append(departments, sqlutil.NullString(department))
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("summary", err)
	}
	if summary == nil {
		return nil, nil
	}

	summary.Places = distinctSorted(places)
	summary.Department = strings.Join(distinctSorted(departments), ", ")
	return summary, nil
}

func (e *Executor) label(ctx context.Context, id int64) (string, error) {
	rows, err := e.gw.QueryContext(ctx, labelSQL, id)
	if err != nil {
		return "", storeErr("label", err)
	}
	labels, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (sql.NullString, error) {
		var label sql.NullString
		err := rows.Scan(&label)
		return label, err
	})
	if err != nil {
		return "", storeErr("label", err)
	}
	if len(labels) == 0 || !labels[0].Valid {
		return MissingLabel, nil
	}
	return labels[0].String, nil
}

type productionRow struct {
	part        string
	name        string
	beginDate   sql.NullString
	endDate     sql.NullString
	nationality sql.NullString
}

func (e *Executor) productions(ctx context.Context, id int64) ([]model.Production, error) {
	rows, err := e.gw.QueryContext(ctx, productionsSQL, id)
	if err != nil {
		return nil, storeErr("productions", err)
	}
	raw, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (productionRow, error) {
		var r productionRow
		err := rows.Scan(&r.part, &r.name, &r.beginDate, &r.endDate, &r.nationality)
		return r, err
	})
	if err != nil {
		return nil, storeErr("productions", err)
	}
	return groupProductions(raw), nil
}

// groupProductions merges rows sharing (part, agent name) into one
// production, collecting distinct nationalities in first-seen order.
func groupProductions(raw []productionRow) []model.Production {
	type group struct {
		first         productionRow
		nationalities []string
	}
	type key struct{ part, name string }

	var order []key
	groups := make(map[key]*group)
	for _, r := range raw {
		k := key{part: r.part, name: r.name}
		g, ok := groups[k]
		if !ok {
			g = &group{first: r}
			groups[k] = g
			order = append(order, k)
		}
		nat := strings.TrimSpace(sqlutil.NullString(r.nationality))
		if nat != "" && !slices.Contains(g.nationalities, nat) {
			g.nationalities = append(g.nationalities, nat)
		}
	}

	out := make([]model.Production, 0, len(order))
	for _, k := range order {
		g := groups[k]
		out = append(out, model.Production{
			Part:          k.part,
			AgentName:     k.name,
			Timespan:      Timespan(sqlutil.NullString(g.first.beginDate), sqlutil.NullString(g.first.endDate)),
			Nationalities: strings.Join(g.nationalities, ", "),
		})
	}

	slices.SortStableFunc(out, func(x, y model.Production) int {
		if c := strings.Compare(strings.ToLower(x.AgentName), strings.ToLower(y.AgentName)); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(x.Part), strings.ToLower(y.Part)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(x.Nationalities), strings.ToLower(y.Nationalities))
	})
	return out
}

// Timespan formats an agent's life span from the first four characters of
// the begin and end dates: "1920-1985", or "1940-" when there is no end.
func Timespan(beginDate, endDate string) string {
	begin := yearPrefix(beginDate)
	end := yearPrefix(endDate)
	if end != "" {
		return begin + "-" + end
	}
	return begin + "-"
}

func yearPrefix(date string) string {
	if r := []rune(date); len(r) > 4 {
		return string(r[:4])
	}
	return date
}

func (e *Executor) classifications(ctx context.Context, id int64) ([]string, error) {
	rows, err := e.gw.QueryContext(ctx, classificationsSQL, id)
	if err != nil {
		return nil, storeErr("classifications", err)
	}
	names, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (string, error) {
		var name string
		err := rows.Scan(&name)
		return name, err
	})
	if err != nil {
		return nil, storeErr("classifications", err)
	}
	return names, nil
}

func (e *Executor) references(ctx context.Context, id int64) ([]model.Reference, error) {
	rows, err := e.gw.QueryContext(ctx, referencesSQL, id)
	if err != nil {
		return nil, storeErr("references", err)
	}
	refs, err := sqlutil.ScanRows(rows, func(rows *sql.Rows) (model.Reference, error) {
		var r model.Reference
		err := rows.Scan(&r.Type, &r.Content)
		return r, err
	})
	if err != nil {
		return nil, storeErr("references", err)
	}
	return refs, nil
}

// distinctSorted trims values, drops empties and duplicates, and sorts the rest.
func distinctSorted(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
