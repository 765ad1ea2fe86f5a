package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/embed"
)

// Store owns the database handle and the embedding provider used for
// single-entry indexing and bulk reindex. It implements
// capture.Indexer, so the coordinator wires *Store directly into
// capture.CaptureAndIndex without capture importing this package.
type Store struct {
	db       *sql.DB
	provider embed.Provider
}

// NewStore wraps an already-migrated database handle.
func NewStore(db *sql.DB, provider embed.Provider) *Store {
	return &Store{db: db, provider: provider}
}

func (s *Store) DB() *sql.DB { return s.db }

// Row mirrors the vault table's columns, used for reindex comparisons
// and read paths that need the raw stored representation.
type Row struct {
	RowID          int64
	ID             string
	Kind           string
	Category       string
	Title          sql.NullString
	Body           string
	Tags           sql.NullString
	Meta           sql.NullString
	Source         string
	FilePath       string
	IdentityKey    sql.NullString
	ExpiresAt      sql.NullString
	SupersededBy   sql.NullString
	CreatedAt      string
	UpdatedAt      string
	HitCount       int
	LastAccessedAt sql.NullString
	UserID         sql.NullString
	TeamID         sql.NullString
}

// IndexEntry implements capture.Indexer: serialize tags/meta, upsert the
// row by file_path, then recompute and store its embedding. Spec.md
// §4.3.3 steps 1-5, wrapped in a transaction for durability as a group.
func (s *Store) IndexEntry(ctx context.Context, e *capture.Entry) error {
	tagsJSON, metaJSON, err := serializeEntry(e.Tags, e.Meta)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin index transaction: %w", err)
	}
	defer tx.Rollback()

	rowID, err := upsertRow(tx, e, tagsJSON, metaJSON)
	if err != nil {
		return err
	}

	if err := s.embedAndStore(ctx, tx, rowID, e.Title, e.Body); err != nil {
		return err
	}

	return tx.Commit()
}

func serializeEntry(tags []string, meta map[string]interface{}) (tagsJSON, metaJSON sql.NullString, err error) {
	if len(tags) > 0 {
		raw, err := json.Marshal(tags)
		if err != nil {
			return sql.NullString{}, sql.NullString{}, fmt.Errorf("marshal tags: %w", err)
		}
		tagsJSON = sql.NullString{String: string(raw), Valid: true}
	}
	if len(meta) > 0 {
		raw, err := json.Marshal(meta)
		if err != nil {
			return sql.NullString{}, sql.NullString{}, fmt.Errorf("marshal meta: %w", err)
		}
		metaJSON = sql.NullString{String: string(raw), Valid: true}
	}
	return tagsJSON, metaJSON, nil
}

// upsertRow inserts the row; on a unique conflict it falls back to an
// UPDATE matched by id, then by file_path (spec.md §4.3.3 step 2),
// returning the row's internal rowid either way.
func upsertRow(tx *sql.Tx, e *capture.Entry, tagsJSON, metaJSON sql.NullString) (int64, error) {
	var expiresAt sql.NullString
	if e.ExpiresAt != nil {
		expiresAt = sql.NullString{String: e.ExpiresAt.UTC().Format(time.RFC3339), Valid: true}
	}
	var identityKey sql.NullString
	if e.IdentityKey != "" {
		identityKey = sql.NullString{String: e.IdentityKey, Valid: true}
	}

	res, err := tx.Exec(`
		INSERT INTO vault (id, kind, category, title, body, tags, meta, source, file_path,
			identity_key, expires_at, created_at, updated_at, hit_count, user_id, team_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, e.ID, e.Kind, e.Category, nullableString(e.Title), e.Body, tagsJSON, metaJSON, e.Source, e.FilePath,
		identityKey, expiresAt, e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339),
		nullableString(e.UserID), nullableString(e.TeamID))
	if err == nil {
		return res.LastInsertId()
	}
	if !isUniqueConflict(err) {
		return 0, fmt.Errorf("insert vault row: %w", err)
	}

	// The conflict is on `id` (an identity-key upsert reusing the prior
	// row's id) or on `file_path` (reindex re-indexing an already-known
	// file). Try id first since it is the stable identifier across an
	// upsert's file rename; fall back to file_path for the reindex case.
	updated, err := updateByMatch(tx, "id", e.ID, e, tagsJSON, metaJSON, identityKey, expiresAt)
	if err != nil {
		return 0, err
	}
	if updated == 0 {
		updated, err = updateByMatch(tx, "file_path", e.FilePath, e, tagsJSON, metaJSON, identityKey, expiresAt)
		if err != nil {
			return 0, err
		}
	}
	if updated == 0 {
		return 0, fmt.Errorf("insert vault row: unique conflict did not match an existing id or file_path")
	}

	var rowID int64
	if err := tx.QueryRow(`SELECT rowid FROM vault WHERE id = ?`, e.ID).Scan(&rowID); err != nil {
		return 0, fmt.Errorf("fetch rowid after update: %w", err)
	}
	return rowID, nil
}

// updateByMatch updates the row matching column = value with e's fields
// (including file_path, so an identity upsert's rename is recorded), and
// returns the number of rows affected.
func updateByMatch(tx *sql.Tx, column, value string, e *capture.Entry, tagsJSON, metaJSON, identityKey, expiresAt sql.NullString) (int64, error) {
	res, err := tx.Exec(`
		UPDATE vault SET kind = ?, category = ?, title = ?, body = ?, tags = ?, meta = ?,
			source = ?, file_path = ?, identity_key = ?, expires_at = ?, updated_at = ?
		WHERE `+column+` = ?
	`, e.Kind, e.Category, nullableString(e.Title), e.Body, tagsJSON, metaJSON,
		e.Source, e.FilePath, identityKey, expiresAt, e.UpdatedAt.UTC().Format(time.RFC3339), value)
	if err != nil {
		return 0, fmt.Errorf("update vault row by %s: %w", column, err)
	}
	return res.RowsAffected()
}

// embedAndStore computes embed(title + " " + body) and replaces the
// row's vector (spec.md §4.3.3 steps 4-5).
func (s *Store) embedAndStore(ctx context.Context, tx *sql.Tx, rowID int64, title, body string) error {
	text := body
	if title != "" {
		text = title + " " + body
	}
	vecs, err := s.provider.Embed(ctx, []string{text}, embed.ModePassage)
	if err != nil {
		return coreutil.WrapError(coreutil.CodeIndexFailed, "embed entry", err)
	}
	if len(vecs) == 0 {
		return coreutil.NewError(coreutil.CodeIndexFailed, "embedding provider returned no vector")
	}
	return UpsertVector(tx, rowID, vecs[0])
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConflict(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// DeleteRow removes a row, its FTS shadow entry (via trigger), and its
// vector, plus returns the file_path so the caller can remove the file
// too (spec.md §3.3 "Destroyed").
func (s *Store) DeleteRow(ctx context.Context, id string) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	var rowID int64
	var filePath string
	err = tx.QueryRow(`SELECT rowid, file_path FROM vault WHERE id = ?`, id).Scan(&rowID, &filePath)
	if err == sql.ErrNoRows {
		return "", coreutil.NewError(coreutil.CodeNotFound, "no entry with that id")
	}
	if err != nil {
		return "", fmt.Errorf("look up entry for delete: %w", err)
	}

	if err := DeleteVector(tx, rowID); err != nil {
		return "", err
	}
	if _, err := tx.Exec(`DELETE FROM vault WHERE rowid = ?`, rowID); err != nil {
		return "", fmt.Errorf("delete vault row: %w", err)
	}

	return filePath, tx.Commit()
}

// GetByID fetches a single row by its public id.
func (s *Store) GetByID(ctx context.Context, id string) (*Row, error) {
	return scanRowQuery(s.db.QueryRow(selectRowColumns+` WHERE id = ?`, id))
}

// GetByIdentityKey fetches a single row by (user_id, kind, identity_key),
// the lookup used for entity-category upsert (spec.md §4.3.5).
func (s *Store) GetByIdentityKey(ctx context.Context, userID, kind, identityKey string) (*Row, error) {
	return scanRowQuery(s.db.QueryRow(
		selectRowColumns+` WHERE kind = ? AND identity_key = ? AND (user_id IS ? OR user_id = ?)`,
		kind, identityKey, nullableString(userID), userID,
	))
}

// FindByIdentityKey implements capture.IdentityIndexer: looks up the
// row matching (user_id, kind, identity_key) and returns the minimal
// fields an identity-key upsert needs to reuse the prior row's
// identity, or nil if there is no match.
func (s *Store) FindByIdentityKey(ctx context.Context, userID, kind, identityKey string) (*capture.IdentityMatch, error) {
	row, err := s.GetByIdentityKey(ctx, userID, kind, identityKey)
	if err != nil {
		if coreutil.AsCode(err) == coreutil.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at for identity match: %w", err)
	}
	return &capture.IdentityMatch{ID: row.ID, CreatedAt: createdAt, FilePath: row.FilePath}, nil
}

// GetByRowIDs batch-hydrates rows for a set of internal rowids, applying
// an optional extra predicate (positional `?` placeholders, referencing
// the `vault` table alias) — the "batch-hydrate candidate rows in a
// single IN (…) query" step used by both the FTS and vector retrieval
// stages (spec.md §4.4.1 steps 1-2).
func (s *Store) GetByRowIDs(ctx context.Context, rowIDs []int64, extraWhere string, extraArgs []interface{}) (map[int64]*Row, error) {
	if len(rowIDs) == 0 {
		return map[int64]*Row{}, nil
	}

	placeholders := make([]string, len(rowIDs))
	args := make([]interface{}, 0, len(rowIDs)+len(extraArgs))
	for i, id := range rowIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, extraArgs...)

	query := selectRowColumns + ` WHERE rowid IN (` + strings.Join(placeholders, ",") + `)`
	if extraWhere != "" {
		query += " AND " + extraWhere
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("batch-hydrate rows: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*Row, len(rowIDs))
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RowID, &r.ID, &r.Kind, &r.Category, &r.Title, &r.Body, &r.Tags, &r.Meta,
			&r.Source, &r.FilePath, &r.IdentityKey, &r.ExpiresAt, &r.SupersededBy, &r.CreatedAt, &r.UpdatedAt,
			&r.HitCount, &r.LastAccessedAt, &r.UserID, &r.TeamID); err != nil {
			return nil, fmt.Errorf("scan hydrated row: %w", err)
		}
		out[r.RowID] = &r
	}
	return out, rows.Err()
}

const selectRowColumns = `
	SELECT rowid, id, kind, category, title, body, tags, meta, source, file_path,
		identity_key, expires_at, superseded_by, created_at, updated_at,
		hit_count, last_accessed_at, user_id, team_id
	FROM vault
`

func scanRowQuery(row *sql.Row) (*Row, error) {
	var r Row
	err := row.Scan(&r.RowID, &r.ID, &r.Kind, &r.Category, &r.Title, &r.Body, &r.Tags, &r.Meta,
		&r.Source, &r.FilePath, &r.IdentityKey, &r.ExpiresAt, &r.SupersededBy, &r.CreatedAt, &r.UpdatedAt,
		&r.HitCount, &r.LastAccessedAt, &r.UserID, &r.TeamID)
	if err == sql.ErrNoRows {
		return nil, coreutil.NewError(coreutil.CodeNotFound, "no matching entry")
	}
	if err != nil {
		return nil, fmt.Errorf("scan vault row: %w", err)
	}
	return &r, nil
}
