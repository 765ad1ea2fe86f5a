package index

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// CreateVectorIndex creates the vault_vec virtual table, keyed by the
// vault row's numeric rowid rather than its string id, per spec.md
// §4.3.1 ("a vector index keyed by vault's internal numeric row
// identifier"). Adapted from the teacher's storage.CreateVectorIndex.
func CreateVectorIndex(db *sql.DB, dimensions int) error {
	if _, err := db.Exec(vaultVecDDL(dimensions)); err != nil {
		return fmt.Errorf("create vault_vec: %w", err)
	}
	return nil
}

// UpsertVector replaces rowID's embedding in vault_vec. vec0 virtual
// tables do not support INSERT OR REPLACE, so delete-then-insert
// achieves the upsert, matching the teacher's UpdateVectorIndex.
func UpsertVector(execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}, rowID int64, embedding []float32) error {
	if _, err := execer.Exec(`DELETE FROM vault_vec WHERE row_id = ?`, rowID); err != nil {
		return fmt.Errorf("delete existing vector for row %d: %w", rowID, err)
	}

	raw, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("serialize embedding: %w", err)
	}
	if _, err := execer.Exec(`INSERT INTO vault_vec (row_id, embedding) VALUES (?, ?)`, rowID, raw); err != nil {
		return fmt.Errorf("insert vector for row %d: %w", rowID, err)
	}
	return nil
}

// DeleteVector removes rowID's vector, if any.
func DeleteVector(execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}, rowID int64) error {
	if _, err := execer.Exec(`DELETE FROM vault_vec WHERE row_id = ?`, rowID); err != nil {
		return fmt.Errorf("delete vector for row %d: %w", rowID, err)
	}
	return nil
}

// VectorHit is one result from a KNN scan: the matched row's rowid and
// the L2 (Euclidean) distance to the query vector.
type VectorHit struct {
	RowID    int64
	Distance float64
}

// QueryKNN returns the k nearest neighbors to query by L2 distance,
// ascending (closest first). On unit vectors this ranges over [0, 2],
// matching spec.md §4.4.1 step 2's similarity conversion. Adapted from
// the teacher's QueryVectorSimilarity.
func QueryKNN(db *sql.DB, query []float32, k int) ([]VectorHit, error) {
	raw, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serialize query embedding: %w", err)
	}

	rows, err := db.Query(`
		SELECT row_id, vec_distance_L2(embedding, ?) AS distance
		FROM vault_vec
		ORDER BY distance
		LIMIT ?
	`, raw, k)
	if err != nil {
		return nil, fmt.Errorf("query vault_vec: %w", err)
	}
	defer rows.Close()

	var hits []VectorHit
	for rows.Next() {
		var h VectorHit
		if err := rows.Scan(&h.RowID, &h.Distance); err != nil {
			return nil, fmt.Errorf("scan vector hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// VectorCount returns the number of vectors currently indexed, used to
// decide whether the vector stage should be skipped entirely (spec.md
// §4.4.2, "missing vector table (fresh vault)").
func VectorCount(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM vault_vec`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count vault_vec: %w", err)
	}
	return n, nil
}

// SimilarityFromL2 converts the engine's L2 distance on unit vectors
// (d ∈ [0,2]) into similarity per spec.md §4.4.1 step 2.
func SimilarityFromL2(d float64) float64 {
	s := 1 - d/2
	if s < 0 {
		return 0
	}
	return s
}

// PairwiseSimilarity looks up two rows' stored embeddings and returns
// their similarity (via the same L2-to-similarity conversion as
// QueryKNN), and whether both rows actually have a vector. Used by
// MMR's sim(a,b) when both candidate documents have a known embedding
// (spec.md §4.4.1 step 7) — the comparison runs inside the engine
// rather than round-tripping the embedding bytes through Go.
func PairwiseSimilarity(db *sql.DB, rowIDA, rowIDB int64) (float64, bool, error) {
	if rowIDA == rowIDB {
		return 1, true, nil
	}
	var d float64
	err := db.QueryRow(`
		SELECT vec_distance_L2(a.embedding, b.embedding)
		FROM vault_vec a, vault_vec b
		WHERE a.row_id = ? AND b.row_id = ?
	`, rowIDA, rowIDB).Scan(&d)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("pairwise similarity for rows %d,%d: %w", rowIDA, rowIDB, err)
	}
	return SimilarityFromL2(d), true, nil
}

// DotProduct is a plain-Go similarity helper for callers already holding
// both vectors in memory (e.g. comparing a freshly computed query
// embedding against a candidate's).
func DotProduct(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
