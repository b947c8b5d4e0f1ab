package store

// AUTOINCREMENT keeps deleted task ids from ever being reused.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'General',
	priority TEXT NOT NULL DEFAULT 'Medium',
	due_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'Pending',
	created_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS tasks_by_status ON tasks(status);
CREATE INDEX IF NOT EXISTS tasks_by_status_due ON tasks(status, due_date);

CREATE TABLE IF NOT EXISTS diary (
	entry_date TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	mood TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL DEFAULT ''
);
`

type migration struct {
	table  string
	column string
	ddl    string
}

// Applied in order against PRAGMA table_info. Columns are only ever added,
// never dropped or renamed.
var migrations = []migration{
	{"tasks", "category", `ALTER TABLE tasks ADD COLUMN category TEXT NOT NULL DEFAULT 'General'`},
	{"tasks", "priority", `ALTER TABLE tasks ADD COLUMN priority TEXT NOT NULL DEFAULT 'Medium'`},
	{"tasks", "created_at", `ALTER TABLE tasks ADD COLUMN created_at TEXT NOT NULL DEFAULT ''`},
	{"diary", "mood", `ALTER TABLE diary ADD COLUMN mood TEXT NOT NULL DEFAULT ''`},
	{"diary", "updated_at", `ALTER TABLE diary ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`},
}
