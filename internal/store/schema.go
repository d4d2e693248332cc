package store

// Schema is applied on every startup; all DDL is idempotent. Deleting a
// workflow cascades to its tool associations, steps and tags.
const Schema = `
CREATE TABLE IF NOT EXISTS workflows (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	source_url TEXT NOT NULL,
	source_title TEXT NOT NULL,
	channel_name TEXT NOT NULL,
	published TEXT DEFAULT '',
	use_case TEXT NOT NULL DEFAULT 'general',
	skill_level TEXT NOT NULL DEFAULT 'intermediate',
	overview TEXT DEFAULT '',
	cost_estimate TEXT DEFAULT '',
	complexity TEXT DEFAULT 'Medium',
	value_score INTEGER DEFAULT 0,
	doc_path TEXT DEFAULT '',
	processed_at TEXT DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_workflows_use_case ON workflows(use_case);
CREATE INDEX IF NOT EXISTS idx_workflows_skill_level ON workflows(skill_level);
CREATE INDEX IF NOT EXISTS idx_workflows_value_score ON workflows(value_score DESC);
CREATE INDEX IF NOT EXISTS idx_workflows_published ON workflows(published DESC);

CREATE TABLE IF NOT EXISTS tools (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS workflow_tools (
	workflow_id INTEGER NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
	tool_id INTEGER NOT NULL REFERENCES tools(id) ON DELETE CASCADE,
	PRIMARY KEY (workflow_id, tool_id)
);

CREATE INDEX IF NOT EXISTS idx_workflow_tools_tool_id ON workflow_tools(tool_id);

CREATE TABLE IF NOT EXISTS workflow_steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workflow_id INTEGER NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
	step_number INTEGER NOT NULL,
	action TEXT NOT NULL DEFAULT '',
	tool TEXT NOT NULL DEFAULT '',
	details TEXT DEFAULT '',
	UNIQUE(workflow_id, step_number)
);

CREATE INDEX IF NOT EXISTS idx_workflow_steps_workflow_id ON workflow_steps(workflow_id);

CREATE TABLE IF NOT EXISTS workflow_tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workflow_id INTEGER NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	value TEXT NOT NULL,
	sort_order INTEGER DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_workflow_tags_wf_kind ON workflow_tags(workflow_id, kind);

CREATE TABLE IF NOT EXISTS processed_videos (
	video_id TEXT PRIMARY KEY,
	processed_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS scan_metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scan_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_date TEXT NOT NULL,
	videos_checked INTEGER DEFAULT 0,
	relevant_found INTEGER DEFAULT 0,
	workflows_generated INTEGER DEFAULT 0,
	completed_at TEXT DEFAULT (datetime('now'))
);
`
