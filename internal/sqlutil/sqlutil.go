// Package sqlutil holds small helpers shared by the catalog queries.
package sqlutil

import (
	"database/sql"
	"strings"
)

// ScanRows scans all rows into a slice using the provided scanner.
// The rows are closed before returning.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// LikeEscape is the ESCAPE character paired with EscapeLike.
const LikeEscape = `\`

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	// Escape backslash first, then % and _
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// ContainsPattern returns a LIKE pattern matching any value containing s.
// Use it with "LIKE ? ESCAPE '\'".
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// NullString returns the string value of ns, or "" when it is NULL.
func NullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
