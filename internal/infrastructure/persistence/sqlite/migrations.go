package sqlite

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations, versions
// sequential from 1. Calendar dates are stored as ISO "YYYY-MM-DD"
// text, matching the domain representation exactly.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	user_group TEXT NOT NULL,
	company    TEXT NOT NULL,
	avatar_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_profiles_company ON profiles(company);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	expires_at DATETIME
);

CREATE TABLE IF NOT EXISTS objectives (
	id                          TEXT PRIMARY KEY,
	title                       TEXT NOT NULL,
	description                 TEXT NOT NULL DEFAULT '',
	responsible_id              TEXT NOT NULL DEFAULT '',
	coordinator_scrum_master_id TEXT NOT NULL DEFAULT '',
	company                     TEXT NOT NULL,
	status                      TEXT NOT NULL DEFAULT 'A Fazer',
	due_date                    TEXT,
	created_at                  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_objectives_company ON objectives(company);

CREATE TABLE IF NOT EXISTS key_results (
	id             TEXT PRIMARY KEY,
	objective_id   TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	responsible_id TEXT NOT NULL DEFAULT '',
	due_date       TEXT,
	status         TEXT NOT NULL DEFAULT 'A Fazer',
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_key_results_objective_id ON key_results(objective_id);

CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	responsible_id TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'A Fazer',
	due_date       TEXT,
	company        TEXT NOT NULL,
	objective_id   TEXT NOT NULL REFERENCES objectives(id) ON DELETE CASCADE,
	kr_id          TEXT REFERENCES key_results(id) ON DELETE SET NULL,
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_tasks_objective_id ON tasks(objective_id);
CREATE INDEX IF NOT EXISTS idx_tasks_kr_id ON tasks(kr_id);

DELETE FROM schema_version;
INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
