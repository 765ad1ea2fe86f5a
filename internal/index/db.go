package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

var registerVecOnce sync.Once

// Open opens (creating if necessary) the SQLite database at path, puts
// it in WAL mode for concurrent readers against a single writer (spec.md
// §5), registers the sqlite-vec extension, and runs Migrate. Grounded on
// the teacher's storage.InitVectorExtension + cache's WAL-mode open.
func Open(path string) (*sql.DB, error) {
	registerVecOnce.Do(sqlite_vec.Auto)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(&db, path); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
