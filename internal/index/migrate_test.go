package index

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FreshDatabaseCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	defer db.Close()

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestOpen_ReopensExistingDatabaseWithoutRebuilding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.db")

	db1, err := Open(path)
	require.NoError(t, err)
	_, err = db1.Exec(`
		INSERT INTO vault (id, kind, category, body, source, file_path, created_at, updated_at)
		VALUES ('id1', 'insight', 'knowledge', 'body', 'test', 'a.md', 'now', 'now')
	`)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	var count int
	require.NoError(t, db2.QueryRow(`SELECT COUNT(*) FROM vault`).Scan(&count))
	assert.Equal(t, 1, count, "reopening a current-version database must not drop existing rows")
}

func TestRebuildFromScratch_BacksUpStaleFileAndRecreatesSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vault.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE leftover (x INTEGER)`)
	require.NoError(t, err)

	require.NoError(t, rebuildFromScratch(&db, path, 0))
	defer db.Close()

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)

	backups, _ := filepath.Glob(path + ".v0.backup")
	assert.NotEmpty(t, backups, "rebuildFromScratch should leave a backup file of the old database")
}

func TestApplyColumnMigrations_NoopWhenAlreadyCurrent(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, applyColumnMigrations(db, CurrentSchemaVersion))
}

func TestCopyFile_PreservesContent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
