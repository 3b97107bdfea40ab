// Package testutil provides reusable test fixtures for lux tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/luxcatalog/lux/internal/catalog"
)

// TestCatalog builds a temporary catalog store on disk.
//
//	path := testutil.NewTestCatalog(t).
//		Object(1, "1961.18.2", "Harbor", "1890").
//		Agent(10, "Jane Doe", "1920-03-01", "").
//		Produced(1, 10, "artist").
//		Build()
type TestCatalog struct {
	Path string
	t    *testing.T
	db   *catalog.Database
}

// NewTestCatalog creates an empty store with the catalog schema in a temp dir.
func NewTestCatalog(t *testing.T) *TestCatalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lux.sqlite")
	db, err := catalog.Create(path)
	if err != nil {
		t.Fatalf("failed to create test catalog: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &TestCatalog{Path: path, t: t, db: db}
}

// Object adds an object row.
func (c *TestCatalog) Object(id int64, accessionNo, label, date string) *TestCatalog {
	c.t.Helper()
	c.exec(`INSERT INTO objects (id, accession_no, label, date) VALUES (?, ?, ?, ?)`,
		id, accessionNo, label, date)
	return c
}

// Agent adds an agent. An empty endDate is stored as NULL.
func (c *TestCatalog) Agent(id int64, name, beginDate, endDate string) *TestCatalog {
	c.t.Helper()
	c.exec(`INSERT INTO agents (id, name, begin_date, end_date) VALUES (?, ?, ?, ?)`,
		id, name, nullable(beginDate), nullable(endDate))
	return c
}

// Produced links an agent to an object in the given role.
func (c *TestCatalog) Produced(objID, agtID int64, part string) *TestCatalog {
	c.t.Helper()
	c.exec(`INSERT INTO productions (obj_id, agt_id, part) VALUES (?, ?, ?)`, objID, agtID, part)
	return c
}

// Nationality attaches a nationality descriptor to an agent.
func (c *TestCatalog) Nationality(agtID int64, descriptor string) *TestCatalog {
	c.t.Helper()
	natID := c.lookupOrInsert("nationalities", "descriptor", descriptor)
	c.exec(`INSERT INTO agents_nationalities (agt_id, nat_id) VALUES (?, ?)`, agtID, natID)
	return c
}

// Classified attaches a classifier to an object.
func (c *TestCatalog) Classified(objID int64, name string) *TestCatalog {
	c.t.Helper()
	clsID := c.lookupOrInsert("classifiers", "name", name)
	c.exec(`INSERT INTO objects_classifiers (obj_id, cls_id) VALUES (?, ?)`, objID, clsID)
	return c
}

// Place attaches a place to an object.
func (c *TestCatalog) Place(objID int64, label string) *TestCatalog {
	c.t.Helper()
	plID := c.lookupOrInsert("places", "label", label)
	c.exec(`INSERT INTO objects_places (obj_id, pl_id) VALUES (?, ?)`, objID, plID)
	return c
}

// PlaceRow adds a separate places row with the given label, even when an
// identical label already exists, and attaches it to the object.
func (c *TestCatalog) PlaceRow(objID int64, label string) *TestCatalog {
	c.t.Helper()
	plID := c.insert(`INSERT INTO places (label) VALUES (?)`, label)
	c.exec(`INSERT INTO objects_places (obj_id, pl_id) VALUES (?, ?)`, objID, plID)
	return c
}

// Department attaches a department to an object.
func (c *TestCatalog) Department(objID int64, name string) *TestCatalog {
	c.t.Helper()
	depID := c.lookupOrInsert("departments", "name", name)
	c.exec(`INSERT INTO objects_departments (obj_id, dep_id) VALUES (?, ?)`, objID, depID)
	return c
}

// Reference attaches a reference to an object.
func (c *TestCatalog) Reference(objID int64, refType, content string) *TestCatalog {
	c.t.Helper()
	c.exec(`INSERT INTO "references" (obj_id, type, content) VALUES (?, ?, ?)`, objID, refType, content)
	return c
}

// Exec runs arbitrary SQL against the store.
func (c *TestCatalog) Exec(query string, args ...any) *TestCatalog {
	c.t.Helper()
	c.exec(query, args...)
	return c
}

// Build flushes the store and returns its path.
func (c *TestCatalog) Build() string {
	c.t.Helper()
	if err := c.db.Close(); err != nil {
		c.t.Fatalf("failed to close test catalog: %v", err)
	}
	return c.Path
}

// Open opens the built store read-only, closing it when the test ends.
func (c *TestCatalog) Open() *catalog.Database {
	c.t.Helper()
	db, err := catalog.Open(c.Build())
	if err != nil {
		c.t.Fatalf("failed to open test catalog: %v", err)
	}
	c.t.Cleanup(func() { db.Close() })
	return db
}

func (c *TestCatalog) exec(query string, args ...any) {
	c.t.Helper()
	if _, err := c.db.DB().Exec(query, args...); err != nil {
		c.t.Fatalf("exec %q: %v", query, err)
	}
}

func (c *TestCatalog) insert(query string, args ...any) int64 {
	c.t.Helper()
	res, err := c.db.DB().Exec(query, args...)
	if err != nil {
		c.t.Fatalf("exec %q: %v", query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		c.t.Fatalf("last insert id: %v", err)
	}
	return id
}

func (c *TestCatalog) lookupOrInsert(table, column, value string) int64 {
	c.t.Helper()
	var id int64
	err := c.db.DB().QueryRow(`SELECT id FROM "`+table+`" WHERE `+column+` = ?`, value).Scan(&id)
	if err == nil {
		return id
	}
	if err != sql.ErrNoRows {
		c.t.Fatalf("lookup %s: %v", table, err)
	}
	return c.insert(`INSERT INTO "`+table+`" (`+column+`) VALUES (?)`, value)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
