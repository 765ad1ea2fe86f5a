package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/embed"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// ReindexOptions parameterizes a bulk reindex pass.
type ReindexOptions struct {
	// FullSync removes DB rows whose file is gone from disk, and
	// revisits files already in the DB to check for edits. When false
	// (add-only mode), files already present in the DB are skipped
	// outright (spec.md §4.3.4 step 4).
	FullSync bool
	// BatchSize overrides embed.BatchSize for queued re-embeddings.
	BatchSize int
	// Progress, if non-nil, receives embedding batch progress.
	Progress chan<- embed.Progress
}

// ReindexResult tallies what a reindex pass did (spec.md §4.3.4).
type ReindexResult struct {
	Added     int
	Updated   int
	Removed   int
	Unchanged int
}

// pendingEmbed is a (rowID, embedding input) pair queued during the disk
// walk and resolved in a single batch pass afterward (spec.md §4.3.4
// step 6).
type pendingEmbed struct {
	rowID int64
	text  string
}

// Reindex reconciles the vault directory tree against the database
// inside a single transaction: for every kind directory, walk its
// markdown files, diff against the known rows, and add/update/remove as
// needed; in full-sync mode, DB rows whose file vanished are deleted.
// Grounded on the teacher's indexer.changeDetector mtime-then-hash
// algorithm, adapted from per-file SHA-256 comparison to a
// frontmatter-field comparison since disk is the source of truth for
// entry content, not a cached hash column.
func (s *Store) Reindex(ctx context.Context, vaultRoot string, opts ReindexOptions) (*ReindexResult, error) {
	result := &ReindexResult{}
	var pending []pendingEmbed

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin reindex transaction: %w", err)
	}
	defer tx.Rollback()

	seen := make(map[string]bool)

	for category, kinds := range coreutil.RegisteredKinds() {
		for _, kind := range kinds {
			kindDir := vaultstate.KindDir(vaultRoot, kind)
			if _, err := os.Stat(kindDir); os.IsNotExist(err) {
				continue
			}

			dbRows, err := loadRowsByKind(tx, kind)
			if err != nil {
				return nil, err
			}

			files, err := walkEntryFiles(kindDir)
			if err != nil {
				return nil, fmt.Errorf("walk kind directory %s: %w", kindDir, err)
			}

			for _, filePath := range files {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				default:
				}
				seen[filePath] = true

				parsed, err := parseEntryFile(filePath, kindDir, kind, string(category))
				if err != nil {
					// invalid frontmatter: log and skip (step 4)
					log.Printf("reindex: skipping %s: %v", filePath, err)
					continue
				}

				existing, ok := dbRows[filePath]
				if !ok {
					rowID, err := insertReindexedRow(tx, parsed)
					if err != nil {
						return nil, err
					}
					pending = append(pending, pendingEmbed{rowID: rowID, text: embeddingInput(parsed)})
					result.Added++
					continue
				}

				if !opts.FullSync {
					result.Unchanged++
					continue
				}

				changed, titleOrBodyChanged := diffRow(existing, parsed)
				if !changed {
					result.Unchanged++
					continue
				}
				if err := updateReindexedRow(tx, existing.RowID, parsed); err != nil {
					return nil, err
				}
				if titleOrBodyChanged {
					if err := DeleteVector(tx, existing.RowID); err != nil {
						return nil, err
					}
					pending = append(pending, pendingEmbed{rowID: existing.RowID, text: embeddingInput(parsed)})
				}
				result.Updated++
			}
		}
	}

	if opts.FullSync {
		removed, err := removeOrphanRows(tx, seen)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	if len(pending) > 0 {
		if err := s.embedPending(ctx, tx, pending, opts); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reindex transaction: %w", err)
	}
	return result, nil
}

// parsedEntry is the frontmatter-decoded view of a disk file used only
// during reindex.
type parsedEntry struct {
	FilePath string
	ID       string
	Kind     string
	Category string
	Title    string
	Body     string
	Tags     []string
	Meta     map[string]interface{}
	Source   string
	Created  string
}

func embeddingInput(p *parsedEntry) string {
	if p.Title != "" {
		return p.Title + " " + p.Body
	}
	return p.Body
}

func walkEntryFiles(kindDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(kindDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != kindDir && vaultstate.IsExcludedFolder(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if vaultstate.IsEntryFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func parseEntryFile(path, kindDir, kind, category string) (*parsedEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields, body, err := coreutil.DecodeFrontmatter(string(raw))
	if err != nil {
		return nil, err
	}
	m := coreutil.FieldsMap(fields)

	p := &parsedEntry{
		FilePath: path,
		Kind:     kind,
		Category: category,
		Body:     body,
		Source:   stringField(m, "source"),
		Created:  stringField(m, "created"),
	}
	p.ID, _ = m["id"].(string)
	if p.ID == "" {
		return nil, fmt.Errorf("missing id in frontmatter")
	}
	p.Title = stringField(m, "title")
	if tags, ok := m["tags"].([]interface{}); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				p.Tags = append(p.Tags, s)
			}
		}
	}

	// Disk is the source of truth for folder; derive it from the file's
	// directory relative to the kind root and fold it into meta (spec.md
	// §4.3.4 step 4).
	folder, _ := filepath.Rel(kindDir, filepath.Dir(path))
	meta := map[string]interface{}{}
	for k, v := range m {
		switch k {
		case "id", "title", "tags", "source", "created", "identity_key", "expires_at":
			continue
		default:
			meta[k] = v
		}
	}
	if folder != "." && folder != "" {
		meta["folder"] = folder
	}
	p.Meta = meta

	return p, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func loadRowsByKind(tx *sql.Tx, kind string) (map[string]*Row, error) {
	rows, err := tx.Query(`
		SELECT rowid, id, kind, category, title, body, tags, meta, source, file_path,
			identity_key, expires_at, superseded_by, created_at, updated_at,
			hit_count, last_accessed_at, user_id, team_id
		FROM vault WHERE kind = ?
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("load rows for kind %s: %w", kind, err)
	}
	defer rows.Close()

	out := make(map[string]*Row)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RowID, &r.ID, &r.Kind, &r.Category, &r.Title, &r.Body, &r.Tags, &r.Meta,
			&r.Source, &r.FilePath, &r.IdentityKey, &r.ExpiresAt, &r.SupersededBy, &r.CreatedAt, &r.UpdatedAt,
			&r.HitCount, &r.LastAccessedAt, &r.UserID, &r.TeamID); err != nil {
			return nil, fmt.Errorf("scan row for kind %s: %w", kind, err)
		}
		out[r.FilePath] = &r
	}
	return out, rows.Err()
}

func diffRow(existing *Row, p *parsedEntry) (changed, titleOrBodyChanged bool) {
	if existing.Title.String != p.Title {
		changed, titleOrBodyChanged = true, true
	}
	if existing.Body != p.Body {
		changed, titleOrBodyChanged = true, true
	}

	tagsJSON, _ := json.Marshal(p.Tags)
	if len(p.Tags) == 0 {
		tagsJSON = nil
	}
	if existing.Tags.String != string(tagsJSON) {
		changed = true
	}

	metaJSON, _ := json.Marshal(p.Meta)
	if len(p.Meta) == 0 {
		metaJSON = nil
	}
	if existing.Meta.String != string(metaJSON) {
		changed = true
	}
	return changed, titleOrBodyChanged
}

func insertReindexedRow(tx *sql.Tx, p *parsedEntry) (int64, error) {
	tagsJSON, metaJSON, err := serializeEntry(p.Tags, p.Meta)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created := p.Created
	if created == "" {
		created = now
	}
	res, err := tx.Exec(`
		INSERT INTO vault (id, kind, category, title, body, tags, meta, source, file_path,
			created_at, updated_at, hit_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`, p.ID, p.Kind, p.Category, nullableString(p.Title), p.Body, tagsJSON, metaJSON, p.Source, p.FilePath, created, now)
	if err != nil {
		return 0, fmt.Errorf("insert reindexed row %s: %w", p.FilePath, err)
	}
	return res.LastInsertId()
}

func updateReindexedRow(tx *sql.Tx, rowID int64, p *parsedEntry) error {
	tagsJSON, metaJSON, err := serializeEntry(p.Tags, p.Meta)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		UPDATE vault SET title = ?, body = ?, tags = ?, meta = ?, updated_at = ?
		WHERE rowid = ?
	`, nullableString(p.Title), p.Body, tagsJSON, metaJSON, now, rowID)
	if err != nil {
		return fmt.Errorf("update reindexed row %d: %w", rowID, err)
	}
	return nil
}

func removeOrphanRows(tx *sql.Tx, seen map[string]bool) (int, error) {
	rows, err := tx.Query(`SELECT rowid, file_path FROM vault`)
	if err != nil {
		return 0, fmt.Errorf("scan vault for orphans: %w", err)
	}
	type orphan struct {
		rowID int64
		path  string
	}
	var orphans []orphan
	for rows.Next() {
		var o orphan
		if err := rows.Scan(&o.rowID, &o.path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan orphan candidate: %w", err)
		}
		if !seen[o.path] {
			orphans = append(orphans, o)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, o := range orphans {
		if err := DeleteVector(tx, o.rowID); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`DELETE FROM vault WHERE rowid = ?`, o.rowID); err != nil {
			return 0, fmt.Errorf("delete orphan row %d: %w", o.rowID, err)
		}
	}
	return len(orphans), nil
}

func (s *Store) embedPending(ctx context.Context, tx *sql.Tx, pending []pendingEmbed, opts ReindexOptions) error {
	texts := make([]string, len(pending))
	for i, p := range pending {
		texts[i] = p.text
	}
	vecs, err := embed.EmbedBatched(ctx, s.provider, texts, embed.ModePassage, opts.BatchSize, opts.Progress)
	if err != nil {
		return coreutil.WrapError(coreutil.CodeIndexFailed, "batch-embed reindexed entries", err)
	}
	for i, p := range pending {
		if vecs[i] == nil {
			continue
		}
		if err := UpsertVector(tx, p.rowID, vecs[i]); err != nil {
			return err
		}
	}
	return nil
}
