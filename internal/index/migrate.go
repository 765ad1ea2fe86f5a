package index

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"
)

// Migrate opens the schema-versioning state machine from spec.md §4.3.2:
// version 0 creates fresh; a version below MinimumSupportedVersion backs
// up the file and rebuilds from scratch (caller is expected to reindex
// from disk); otherwise idempotent column-add migrations run in a single
// transaction. dbPath is needed only for the backup-and-rebuild path,
// where the handle passed in by Open must be replaced with a connection
// to the freshly recreated file; Open always re-reads db.path afterward
// via the returned handle, never the original pointer's identity.
func Migrate(db **sql.DB, dbPath string) error {
	version, err := GetSchemaVersion(*db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case version == 0:
		return CreateSchema(*db)
	case version < MinimumSupportedVersion:
		return rebuildFromScratch(db, dbPath, version)
	default:
		return applyColumnMigrations(*db, version)
	}
}

// rebuildFromScratch backs up the database file to <path>.v<old>.backup,
// drops every object this package created, and recreates the schema
// fresh at CurrentSchemaVersion. The caller is expected to rebuild the
// index content via a full reindex from disk afterward.
func rebuildFromScratch(db **sql.DB, dbPath string, oldVersion int) error {
	if dbPath != "" {
		backupPath := fmt.Sprintf("%s.v%d.backup", dbPath, oldVersion)
		(*db).Close()
		if err := copyFile(dbPath, backupPath); err != nil {
			return fmt.Errorf("back up database before rebuild: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("remove stale database: %w", err)
		}
		reopened, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("reopen database after rebuild: %w", err)
		}
		*db = reopened
	}
	return CreateSchema(*db)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// columnMigration is one idempotent ADD COLUMN step, guarded so that a
// database already at or past the target column still succeeds (SQLite
// reports "duplicate column name" rather than a no-op).
type columnMigration struct {
	table, column, ddl string
	minVersion         int
	setsVersion        int
}

// migrations lists every column-add step applied when upgrading from an
// older but still-supported schema_version. Empty today because
// CurrentSchemaVersion == MinimumSupportedVersion; new columns land here
// as the schema evolves, following the teacher's
// migrateSchema_2_0_to_2_1 guarded-ALTER-TABLE pattern.
var migrations []columnMigration

func applyColumnMigrations(db *sql.DB, version int) error {
	if version >= CurrentSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range migrations {
		if version < m.minVersion {
			continue
		}
		if _, err := tx.Exec(m.ddl); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				continue
			}
			return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration transaction: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`
		INSERT INTO vault_meta (key, value, updated_at) VALUES ('schema_version', ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, fmt.Sprint(CurrentSchemaVersion), now)
	if err != nil {
		return fmt.Errorf("update schema version: %w", err)
	}
	return nil
}
