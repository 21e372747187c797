package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"hanzi/internal/domain"
)

// Export reads every table into one snapshot. The reads share a
// transaction so the snapshot is consistent.
func (r *Repository) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		chars, err := listCharacters(ctx, tx)
		if err != nil {
			return err
		}
		snap.Characters = make([]domain.SnapshotCharacter, 0, len(chars))
		for _, c := range chars {
			snap.Characters = append(snap.Characters, domain.NewSnapshotCharacter(c))
		}

		if snap.Batches, err = listCollections(ctx, tx, batchesTable); err != nil {
			return err
		}
		if snap.Groups, err = listCollections(ctx, tx, groupsTable); err != nil {
			return err
		}
		if snap.Tags, err = listTags(ctx, tx); err != nil {
			return err
		}
		if snap.Settings, err = listSettings(ctx, tx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

// Import restores a snapshot in a single transaction. Characters and
// settings are upserted and tags are added; batches and groups present in
// the snapshot replace the existing tables.
func (r *Repository) Import(ctx context.Context, snap *domain.Snapshot) (*domain.ImportStats, error) {
	stats := &domain.ImportStats{}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range snap.Characters {
			if err := upsertCharacter(ctx, tx, c.ID, c.Input()); err != nil {
				return err
			}
			stats.Characters++
		}

		if snap.Batches != nil {
			rows, err := replaceCollections(ctx, tx, batchesTable, snap.Batches)
			if err != nil {
				return err
			}
			stats.Batches = len(rows)
		}

		if snap.Groups != nil {
			rows, err := replaceCollections(ctx, tx, groupsTable, snap.Groups)
			if err != nil {
				return err
			}
			stats.Groups = len(rows)
		}

		if err := deriveTags(ctx, tx, snap.Tags); err != nil {
			return err
		}
		stats.Tags = len(snap.Tags)

		// Sorted so repeated imports issue the same statements.
		keys := make([]string, 0, len(snap.Settings))
		for k := range snap.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := setSetting(ctx, tx, k, snap.Settings[k]); err != nil {
				return err
			}
		}
		stats.Settings = len(keys)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	return stats, nil
}
