package index

import (
	"context"
	"fmt"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// Supersede marks oldID's row as superseded by newID, atomically with
// the caller having already indexed newID (spec.md §4.3.6: "capture a
// replacement insight, then point the old one at it"). Superseded rows
// remain searchable but retrieve excludes them unless the caller opts
// in via SearchOptions.IncludeSuperseded.
func (s *Store) Supersede(ctx context.Context, oldID, newID string) error {
	if oldID == newID {
		return coreutil.NewError(coreutil.CodeInvalidArgument, "an entry cannot supersede itself")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin supersede transaction: %w", err)
	}
	defer tx.Rollback()

	var newExists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM vault WHERE id = ?`, newID).Scan(&newExists); err != nil {
		return fmt.Errorf("check superseding entry exists: %w", err)
	}
	if newExists == 0 {
		return coreutil.NewError(coreutil.CodeNotFound, "superseding entry does not exist")
	}

	res, err := tx.Exec(`UPDATE vault SET superseded_by = ? WHERE id = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("set superseded_by: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check superseded_by rows affected: %w", err)
	}
	if affected == 0 {
		return coreutil.NewError(coreutil.CodeNotFound, "no entry with that id to supersede")
	}

	return tx.Commit()
}

// Unsupersede clears a row's superseded_by marker, reversing Supersede.
// Not named in spec.md directly but kept as the natural inverse for CLI
// and test use. Unlike Supersede it is a single UPDATE with no
// explicit transaction.
func (s *Store) Unsupersede(ctx context.Context, id string) error {
	res, err := s.db.Exec(`UPDATE vault SET superseded_by = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear superseded_by: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check unsupersede rows affected: %w", err)
	}
	if affected == 0 {
		return coreutil.NewError(coreutil.CodeNotFound, "no entry with that id")
	}
	return nil
}
