package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"hanzi/internal/domain"
)

// Table names for the two collection kinds.
const (
	batchesTable = "batches"
	groupsTable  = "groups"
)

// ident quotes a table name; "groups" is an SQL keyword.
func ident(table string) string {
	return `"` + table + `"`
}

func listCollections(ctx context.Context, q querier, table string) ([]domain.Collection, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+collectionColumns+` FROM `+ident(table)+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := []domain.Collection{}
	for rows.Next() {
		var row collectionRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return out, nil
}

// insertCollection inserts a row, keeping id when it is positive.
func insertCollection(ctx context.Context, q querier, table string, id int64, in domain.CollectionInput) (domain.Collection, error) {
	var (
		res sql.Result
		err error
	)
	if id > 0 {
		res, err = q.ExecContext(ctx, `INSERT INTO `+ident(table)+` (id, name, characters) VALUES (?, ?, ?)`,
			id, in.Name, string(in.Characters))
	} else {
		res, err = q.ExecContext(ctx, `INSERT INTO `+ident(table)+` (name, characters) VALUES (?, ?)`,
			in.Name, string(in.Characters))
	}
	if err != nil {
		return domain.Collection{}, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	if id <= 0 {
		id, err = res.LastInsertId()
		if err != nil {
			return domain.Collection{}, fmt.Errorf("failed to read %s id: %w", table, err)
		}
	}

	return domain.Collection{ID: id, Name: in.Name, Characters: in.Characters}, nil
}

func updateCollection(ctx context.Context, q querier, table string, id int64, in domain.CollectionInput) error {
	_, err := q.ExecContext(ctx, `UPDATE `+ident(table)+` SET name = ?, characters = ? WHERE id = ?`,
		in.Name, string(in.Characters), id)
	if err != nil {
		return fmt.Errorf("failed to update %s row: %w", table, err)
	}
	return nil
}

func deleteCollection(ctx context.Context, q querier, table string, id int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+ident(table)+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete %s row: %w", table, err)
	}
	return nil
}

// replaceCollections clears table and inserts rows in order. The id
// sequence restarts too, so replacing with the same rows twice assigns the
// same ids.
func replaceCollections(ctx context.Context, q querier, table string, rows []domain.Collection) ([]domain.Collection, error) {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+ident(table)); err != nil {
		return nil, fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil {
		return nil, fmt.Errorf("failed to reset %s sequence: %w", table, err)
	}

	out := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		created, err := insertCollection(ctx, q, table, row.ID, domain.CollectionInput{
			Name:       row.Name,
			Characters: row.Characters,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// ============================================================================
// Batches
// ============================================================================

// ListBatches returns all batches
func (r *Repository) ListBatches(ctx context.Context) ([]domain.Batch, error) {
	return listCollections(ctx, r.db, batchesTable)
}

// CreateBatch appends a batch
func (r *Repository) CreateBatch(ctx context.Context, in domain.CollectionInput) (*domain.Batch, error) {
	b, err := insertCollection(ctx, r.db, batchesTable, 0, in)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBatch replaces a batch's name and list; a missing id is a no-op
func (r *Repository) UpdateBatch(ctx context.Context, id int64, in domain.CollectionInput) error {
	return updateCollection(ctx, r.db, batchesTable, id, in)
}

// DeleteBatch removes a batch; a missing id is a no-op
func (r *Repository) DeleteBatch(ctx context.Context, id int64) error {
	return deleteCollection(ctx, r.db, batchesTable, id)
}

// ReplaceBatches atomically deletes every batch and inserts inputs in order
func (r *Repository) ReplaceBatches(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Batch, error) {
	rows := make([]domain.Collection, len(inputs))
	for i, in := range inputs {
		rows[i] = domain.Collection{Name: in.Name, Characters: in.Characters}
	}

	var out []domain.Batch
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = replaceCollections(ctx, tx, batchesTable, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================================
// Groups
// ============================================================================

// ListGroups returns all groups
func (r *Repository) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return listCollections(ctx, r.db, groupsTable)
}

// CreateGroups inserts each input as its own group
func (r *Repository) CreateGroups(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Group, error) {
	out := make([]domain.Group, 0, len(inputs))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, in := range inputs {
			g, err := insertCollection(ctx, tx, groupsTable, 0, in)
			if err != nil {
				return err
			}
			out = append(out, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateGroup replaces a group's name and list; a missing id is a no-op
func (r *Repository) UpdateGroup(ctx context.Context, id int64, in domain.CollectionInput) error {
	return updateCollection(ctx, r.db, groupsTable, id, in)
}

// DeleteGroup removes a group; a missing id is a no-op
func (r *Repository) DeleteGroup(ctx context.Context, id int64) error {
	return deleteCollection(ctx, r.db, groupsTable, id)
}
