// Package index owns the derived SQLite database: the vault row table,
// its FTS5 shadow, and its sqlite-vec vector shadow, plus the bulk
// reindex that reconciles the database against the markdown files on
// disk. Grounded on the teacher's internal/storage (schema.go,
// vector_index.go) and internal/cache/migration.go, adapted from a
// code-graph cache to the single wide `vault` row table spec.md §4.3
// describes.
package index

import (
	"database/sql"
	"fmt"
	"time"
)

// CurrentSchemaVersion is the schema_version this build creates and
// migrates towards.
const CurrentSchemaVersion = 1

// MinimumSupportedVersion is the oldest schema_version this build will
// migrate forward instead of rebuilding from scratch (spec.md §4.3.2).
const MinimumSupportedVersion = 1

// EmbeddingDimensions is the fixed vector width D from spec.md §4.3.1.
const EmbeddingDimensions = 384

const createVaultTable = `
CREATE TABLE vault (
    rowid INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    category TEXT NOT NULL,
    title TEXT,
    body TEXT NOT NULL,
    tags TEXT,
    meta TEXT,
    source TEXT NOT NULL,
    file_path TEXT NOT NULL UNIQUE,
    identity_key TEXT,
    expires_at TEXT,
    superseded_by TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    hit_count INTEGER NOT NULL DEFAULT 0,
    last_accessed_at TEXT,
    user_id TEXT,
    team_id TEXT
)
`

const createVaultFTSTable = `
CREATE VIRTUAL TABLE vault_fts USING fts5(
    title, body, tags, kind,
    content = 'vault',
    content_rowid = 'rowid'
)
`

const createVaultMetaTable = `
CREATE TABLE vault_meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
)
`

func vaultVecDDL(dimensions int) string {
	return fmt.Sprintf(`
CREATE VIRTUAL TABLE vault_vec USING vec0(
    row_id INTEGER PRIMARY KEY,
    embedding float[%d]
)`, dimensions)
}

func vaultIndexes() []string {
	return []string{
		"CREATE INDEX idx_vault_kind ON vault(kind)",
		"CREATE INDEX idx_vault_category ON vault(category)",
		"CREATE INDEX idx_vault_category_created ON vault(category, created_at DESC)",
		"CREATE INDEX idx_vault_updated ON vault(updated_at DESC)",
		"CREATE UNIQUE INDEX idx_vault_identity_key ON vault(user_id, kind, identity_key) WHERE identity_key IS NOT NULL",
		"CREATE INDEX idx_vault_superseded_by ON vault(superseded_by) WHERE superseded_by IS NOT NULL",
		"CREATE INDEX idx_vault_user_id ON vault(user_id)",
		"CREATE INDEX idx_vault_team_id ON vault(team_id)",
	}
}

func vaultFTSTriggers() []string {
	return []string{
		`CREATE TRIGGER vault_fts_insert AFTER INSERT ON vault BEGIN
			INSERT INTO vault_fts(rowid, title, body, tags, kind)
			VALUES (new.rowid, new.title, new.body, new.tags, new.kind);
		END`,
		`CREATE TRIGGER vault_fts_update AFTER UPDATE ON vault BEGIN
			INSERT INTO vault_fts(vault_fts, rowid, title, body, tags, kind)
			VALUES ('delete', old.rowid, old.title, old.body, old.tags, old.kind);
			INSERT INTO vault_fts(rowid, title, body, tags, kind)
			VALUES (new.rowid, new.title, new.body, new.tags, new.kind);
		END`,
		`CREATE TRIGGER vault_fts_delete AFTER DELETE ON vault BEGIN
			INSERT INTO vault_fts(vault_fts, rowid, title, body, tags, kind)
			VALUES ('delete', old.rowid, old.title, old.body, old.tags, old.kind);
		END`,
	}
}

// CreateSchema creates the vault, vault_fts and vault_vec objects plus
// their indexes and sync triggers, and bootstraps vault_meta with the
// current schema_version. Mirrors the transactional table-then-index
// ordering of the teacher's storage.CreateSchema, with virtual tables
// created outside the transaction as SQLite requires.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(createVaultTable); err != nil {
		return fmt.Errorf("create vault table: %w", err)
	}
	if _, err := tx.Exec(createVaultMetaTable); err != nil {
		return fmt.Errorf("create vault_meta table: %w", err)
	}
	for _, ddl := range vaultIndexes() {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("create vault index: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}

	if _, err := db.Exec(createVaultFTSTable); err != nil {
		return fmt.Errorf("create vault_fts table: %w", err)
	}
	if err := CreateVectorIndex(db, EmbeddingDimensions); err != nil {
		return fmt.Errorf("create vault_vec table: %w", err)
	}
	for _, trig := range vaultFTSTriggers() {
		if _, err := db.Exec(trig); err != nil {
			return fmt.Errorf("create fts trigger: %w", err)
		}
	}

	return SetSchemaVersion(db, CurrentSchemaVersion)
}

// GetSchemaVersion reads schema_version from vault_meta, returning 0 if
// the table does not yet exist (fresh database file).
func GetSchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'vault_meta'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check vault_meta existence: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`SELECT value FROM vault_meta WHERE key = 'schema_version'`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}

// SetSchemaVersion upserts schema_version in vault_meta.
func SetSchemaVersion(db *sql.DB, version int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(`
		INSERT INTO vault_meta (key, value, updated_at) VALUES ('schema_version', ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, fmt.Sprint(version), now)
	if err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}
