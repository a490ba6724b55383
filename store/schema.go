package store

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	url            TEXT NOT NULL,
	project_number INTEGER NOT NULL,
	name           TEXT NOT NULL DEFAULT '',
	dsid           TEXT NOT NULL DEFAULT '',
	success        INTEGER NOT NULL,
	error          TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id  INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	file_name   TEXT NOT NULL,
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	chars       INTEGER NOT NULL DEFAULT 0,
	text        TEXT NOT NULL DEFAULT '',
	fields_json TEXT NOT NULL DEFAULT '{}',
	links_json  TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS comments (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id  INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	page     INTEGER NOT NULL,
	author   TEXT NOT NULL,
	type     TEXT NOT NULL,
	text     TEXT NOT NULL,
	created  TEXT NOT NULL DEFAULT '',
	modified TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_projects_dsid ON projects(dsid);
CREATE INDEX IF NOT EXISTS idx_files_project ON files(project_id);
CREATE INDEX IF NOT EXISTS idx_comments_file ON comments(file_id);
`
