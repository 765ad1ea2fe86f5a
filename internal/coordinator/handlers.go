package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mvp-joe/contextvault/internal/capture"
	"github.com/mvp-joe/contextvault/internal/coreutil"
	"github.com/mvp-joe/contextvault/internal/index"
	"github.com/mvp-joe/contextvault/internal/retrieve"
	"github.com/mvp-joe/contextvault/internal/vaultstate"
)

// EntryResult is save_context's and ingest_url's result shape (spec.md
// §6.2).
type EntryResult struct {
	ID       string `json:"id"`
	FilePath string `json:"file_path"`
}

// RowResult is one row of a get_context/list_context result (spec.md
// §6.2): the fields that matter to a caller, tags decoded back out of
// their JSON column, score only populated by get_context.
type RowResult struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Category  string   `json:"category"`
	Title     string   `json:"title,omitempty"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags,omitempty"`
	Source    string   `json:"source"`
	FilePath  string   `json:"file_path"`
	CreatedAt string   `json:"created_at"`
	Score     float64  `json:"score,omitempty"`
}

// SaveContext implements save_context: capture-and-index, with
// identity-key upsert when one is supplied.
func (c *Coordinator) SaveContext(ctx context.Context, in capture.WriteEntryInput) (EntryResult, error) {
	return call(c, ctx, "save_context", func(ctx context.Context) (EntryResult, error) {
		if err := c.maybeReindex(ctx); err != nil {
			return EntryResult{}, err
		}
		if in.Source == "" {
			in.Source = capture.DefaultSource
		}
		e, err := capture.SaveWithIdentity(ctx, c.vaultRoot, c.store, in)
		if err != nil {
			return EntryResult{}, err
		}
		c.retrieve.InvalidateCachedRow(e.ID)
		return EntryResult{ID: e.ID, FilePath: e.FilePath}, nil
	})
}

// GetContext implements get_context: hybrid search, scored.
func (c *Coordinator) GetContext(ctx context.Context, opts retrieve.SearchOptions) ([]RowResult, error) {
	return call(c, ctx, "get_context", func(ctx context.Context) ([]RowResult, error) {
		if err := c.maybeReindex(ctx); err != nil {
			return nil, err
		}
		hits, err := c.retrieve.SearchScored(ctx, opts)
		if err != nil {
			return nil, err
		}
		out := make([]RowResult, len(hits))
		for i, h := range hits {
			out[i] = rowResult(h.Row)
			out[i].Score = h.Score
		}
		return out, nil
	})
}

// ListContext implements list_context: a plain reverse-chronological
// scan with no score.
func (c *Coordinator) ListContext(ctx context.Context, opts retrieve.ListOptions) ([]RowResult, error) {
	return call(c, ctx, "list_context", func(ctx context.Context) ([]RowResult, error) {
		if err := c.maybeReindex(ctx); err != nil {
			return nil, err
		}
		rows, err := c.retrieve.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		out := make([]RowResult, len(rows))
		for i, r := range rows {
			out[i] = rowResult(r)
		}
		return out, nil
	})
}

// DeleteResult is delete_context's result shape.
type DeleteResult struct {
	Deleted bool `json:"deleted"`
}

// DeleteContext implements delete_context: remove the row (cascading to
// FTS and the vector) and the backing file (spec.md §3.3 "Destroyed").
func (c *Coordinator) DeleteContext(ctx context.Context, id string) (DeleteResult, error) {
	return call(c, ctx, "delete_context", func(ctx context.Context) (DeleteResult, error) {
		filePath, err := c.store.DeleteRow(ctx, id)
		if err != nil {
			return DeleteResult{}, err
		}
		c.retrieve.InvalidateCachedRow(id)
		_ = capture.RemoveEntryFile(filePath) // best-effort; the row is already gone either way
		return DeleteResult{Deleted: true}, nil
	})
}

// IngestURLInput is ingest_url's parameter shape: a URL to fetch plus
// the same optional enrichments save_context accepts.
type IngestURLInput struct {
	URL         string
	Kind        string
	Title       string
	Tags        []string
	Meta        map[string]interface{}
	Source      string
	Folder      string
	IdentityKey string
	ExpiresAt   *time.Time
	UserID      string
	TeamID      string
}

// URLFetcher is the external collaborator that turns a URL into text,
// kept as a narrow interface so the coordinator never imports an HTTP
// client directly (spec.md §1: transport and external fetch are out of
// scope for the core, wired in only at this boundary).
type URLFetcher interface {
	Fetch(ctx context.Context, url string) (title, body string, err error)
}

// IngestURL implements ingest_url: fetch the page, fold its title/body
// into a save_context-equivalent write (spec.md §6.2: "as save_context").
func (c *Coordinator) IngestURL(ctx context.Context, fetcher URLFetcher, in IngestURLInput) (EntryResult, error) {
	return call(c, ctx, "ingest_url", func(ctx context.Context) (EntryResult, error) {
		if err := c.maybeReindex(ctx); err != nil {
			return EntryResult{}, err
		}
		fetchedTitle, body, err := fetcher.Fetch(ctx, in.URL)
		if err != nil {
			return EntryResult{}, coreutil.WrapError(coreutil.CodeInvalidArgument, "fetch url", err)
		}

		title := in.Title
		if title == "" {
			title = fetchedTitle
		}
		kind := in.Kind
		if kind == "" {
			kind = "reference"
		}
		source := in.Source
		if source == "" {
			source = in.URL
		}
		meta := in.Meta
		if meta == nil {
			meta = map[string]interface{}{}
		}
		meta["url"] = in.URL

		e, err := capture.SaveWithIdentity(ctx, c.vaultRoot, c.store, capture.WriteEntryInput{
			Kind:        kind,
			Title:       title,
			Body:        body,
			Tags:        in.Tags,
			Meta:        meta,
			Source:      source,
			Folder:      in.Folder,
			IdentityKey: in.IdentityKey,
			ExpiresAt:   in.ExpiresAt,
			UserID:      in.UserID,
			TeamID:      in.TeamID,
		})
		if err != nil {
			return EntryResult{}, err
		}
		c.retrieve.InvalidateCachedRow(e.ID)
		return EntryResult{ID: e.ID, FilePath: e.FilePath}, nil
	})
}

// StatusResult is context_status's result shape (spec.md §6.2): counts,
// staleness, embedding coverage, and growth warnings.
type StatusResult struct {
	VaultRoot          string               `json:"vault_root"`
	TotalEntries       int                  `json:"total_entries"`
	ByKind             map[string]int       `json:"by_kind"`
	ByCategory         map[string]int       `json:"by_category"`
	StalePaths         int                  `json:"stale_paths"`
	ExpiredCount       int                  `json:"expired_count"`
	EmbeddingAvailable bool                 `json:"embedding_available"`
	EmbeddingIndexed   int                  `json:"embedding_indexed"`
	EmbeddingTotal     int                  `json:"embedding_total"`
	Warnings           []vaultstate.Reading `json:"warnings,omitempty"`
	ReindexFailed      bool                 `json:"reindex_failed"`
	ReindexError       string               `json:"reindex_error,omitempty"`
	Metrics            MetricsSnapshot      `json:"metrics"`
}

// ContextStatus implements context_status: a health snapshot plus
// threshold-based growth warnings (SPEC_FULL.md §10.2).
func (c *Coordinator) ContextStatus(ctx context.Context, thresholds vaultstate.Thresholds) (StatusResult, error) {
	return call(c, ctx, "context_status", func(ctx context.Context) (StatusResult, error) {
		stats, err := c.store.Stats(ctx)
		if err != nil {
			return StatusResult{}, fmt.Errorf("gather stats: %w", err)
		}

		result := StatusResult{
			VaultRoot:          c.vaultRoot,
			TotalEntries:       stats.TotalEntries,
			ByKind:             stats.ByKind,
			ByCategory:         stats.ByCategory,
			StalePaths:         stats.StalePaths,
			ExpiredCount:       stats.ExpiredCount,
			EmbeddingAvailable: stats.EmbeddingTotal > 0,
			EmbeddingIndexed:   stats.EmbeddingIndexed,
			EmbeddingTotal:     stats.EmbeddingTotal,
			Metrics:            c.metrics.Snapshot(),
		}
		result.Warnings = vaultstate.Evaluate(vaultstate.Metrics{
			TotalEntries:     int64(stats.TotalEntries),
			EventEntries:     int64(stats.ByCategory["event"]),
			VaultSizeBytes:   stats.VaultSizeBytes,
			EventsWithoutTTL: int64(stats.EventsWithoutTTL),
		}, thresholds)

		if ran, reindexErr := c.reindex.failed(); ran && reindexErr != nil {
			result.ReindexFailed = true
			result.ReindexError = reindexErr.Error()
		}
		return result, nil
	})
}

func rowResult(r *index.Row) RowResult {
	rr := RowResult{
		ID:        r.ID,
		Kind:      r.Kind,
		Category:  r.Category,
		Body:      r.Body,
		Source:    r.Source,
		FilePath:  r.FilePath,
		CreatedAt: r.CreatedAt,
	}
	if r.Title.Valid {
		rr.Title = r.Title.String
	}
	if r.Tags.Valid {
		_ = json.Unmarshal([]byte(r.Tags.String), &rr.Tags)
	}
	return rr
}
