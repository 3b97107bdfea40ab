package catalog

// Schema is the DDL of a catalog store. Production stores are supplied
// externally; this is what `lux db init` and the tests create.
const Schema = `
	CREATE TABLE IF NOT EXISTS objects (
		id INTEGER PRIMARY KEY,
		accession_no TEXT,
		label TEXT,
		date TEXT
	);

	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		name TEXT,
		begin_date TEXT,            -- ISO date, only the year is used
		end_date TEXT               -- NULL while living or unknown
	);

	CREATE TABLE IF NOT EXISTS productions (
		obj_id INTEGER NOT NULL REFERENCES objects(id),
		agt_id INTEGER NOT NULL REFERENCES agents(id),
		part TEXT
	);

	CREATE TABLE IF NOT EXISTS nationalities (
		id INTEGER PRIMARY KEY,
		descriptor TEXT
	);

	CREATE TABLE IF NOT EXISTS agents_nationalities (
		agt_id INTEGER NOT NULL REFERENCES agents(id),
		nat_id INTEGER NOT NULL REFERENCES nationalities(id)
	);

	CREATE TABLE IF NOT EXISTS classifiers (
		id INTEGER PRIMARY KEY,
		name TEXT
	);

	CREATE TABLE IF NOT EXISTS objects_classifiers (
		obj_id INTEGER NOT NULL REFERENCES objects(id),
		cls_id INTEGER NOT NULL REFERENCES classifiers(id)
	);

	CREATE TABLE IF NOT EXISTS places (
		id INTEGER PRIMARY KEY,
		label TEXT
	);

	CREATE TABLE IF NOT EXISTS objects_places (
		obj_id INTEGER NOT NULL REFERENCES objects(id),
		pl_id INTEGER NOT NULL REFERENCES places(id)
	);

	CREATE TABLE IF NOT EXISTS departments (
		id INTEGER PRIMARY KEY,
		name TEXT
	);

	CREATE TABLE IF NOT EXISTS objects_departments (
		obj_id INTEGER NOT NULL REFERENCES objects(id),
		dep_id INTEGER NOT NULL REFERENCES departments(id)
	);

	CREATE TABLE IF NOT EXISTS "references" (
		obj_id INTEGER NOT NULL REFERENCES objects(id),
		type TEXT,
		content TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_productions_obj ON productions(obj_id);
	CREATE INDEX IF NOT EXISTS idx_agents_nationalities_agt ON agents_nationalities(agt_id);
	CREATE INDEX IF NOT EXISTS idx_objects_classifiers_obj ON objects_classifiers(obj_id);
	CREATE INDEX IF NOT EXISTS idx_objects_places_obj ON objects_places(obj_id);
	CREATE INDEX IF NOT EXISTS idx_objects_departments_obj ON objects_departments(obj_id);
	CREATE INDEX IF NOT EXISTS idx_references_obj ON "references"(obj_id);
`

// countedTables are reported by Stats, in display order.
var countedTables = []string{
	"objects",
	"agents",
	"productions",
	"classifiers",
	"places",
	"departments",
	"references",
}
