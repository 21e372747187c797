package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hanzi/internal/domain"
)

func listCharacters(ctx context.Context, q querier) ([]domain.Character, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	chars := []domain.Character{}
	for rows.Next() {
		var row characterRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		chars = append(chars, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating characters: %w", err)
	}
	return chars, nil
}

// ListCharacters returns all characters in insertion order
func (r *Repository) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	return listCharacters(ctx, r.db)
}

func getCharacterWhere(ctx context.Context, q querier, where string, arg any) (*domain.Character, error) {
	var row characterRow
	err := q.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE `+where, arg).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query character: %w", err)
	}
	c := row.toDomain()
	return &c, nil
}

// GetCharacter retrieves a character by id
func (r *Repository) GetCharacter(ctx context.Context, id int64) (*domain.Character, error) {
	return getCharacterWhere(ctx, r.db, `id = ?`, id)
}

// GetCharacterByText retrieves a character by its text form
func (r *Repository) GetCharacterByText(ctx context.Context, text string) (*domain.Character, error) {
	return getCharacterWhere(ctx, r.db, `character = ?`, text)
}

// CreateCharacter inserts a new character and registers its tags. A
// duplicate text form fails with domain.ErrDuplicateCharacter.
func (r *Repository) CreateCharacter(ctx context.Context, in domain.CharacterInput) (*domain.Character, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO characters (character, pinyin, meaning, level, tags, other, examples)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, characterValues(in)...)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", domain.ErrDuplicateCharacter, in.Character)
			}
			return fmt.Errorf("failed to insert character: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read character id: %w", err)
		}

		return deriveTags(ctx, tx, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	c := in.ToCharacter(id)
	return &c, nil
}

// UpdateCharacter overwrites every field of the character with the given
// id. A missing id is a no-op.
func (r *Repository) UpdateCharacter(ctx context.Context, id int64, in domain.CharacterInput) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		args := append(characterValues(in), id)
		res, err := tx.ExecContext(ctx, `
			UPDATE characters
			SET character = ?, pinyin = ?, meaning = ?, level = ?, tags = ?, other = ?, examples = ?
			WHERE id = ?
		`, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", domain.ErrDuplicateCharacter, in.Character)
			}
			return fmt.Errorf("failed to update character: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if n == 0 {
			return nil
		}

		return deriveTags(ctx, tx, in.Tags)
	})
}

// DeleteCharacter removes a character. Batches and groups that list it
// keep their references.
func (r *Repository) DeleteCharacter(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

// upsertCharacter writes an imported character. With a positive id the row
// with that id (and any row holding the same text) is replaced; otherwise
// the row with the same text is overwritten in place, keeping its id.
func upsertCharacter(ctx context.Context, q querier, id int64, in domain.CharacterInput) error {
	var err error
	if id > 0 {
		args := append([]any{id}, characterValues(in)...)
		_, err = q.ExecContext(ctx, `
			INSERT OR REPLACE INTO characters (id, character, pinyin, meaning, level, tags, other, examples)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, args...)
	} else {
		_, err = q.ExecContext(ctx, `
			INSERT INTO characters (character, pinyin, meaning, level, tags, other, examples)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(character) DO UPDATE SET
				pinyin = excluded.pinyin,
				meaning = excluded.meaning,
				level = excluded.level,
				tags = excluded.tags,
				other = excluded.other,
				examples = excluded.examples
		`, characterValues(in)...)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert character %q: %w", in.Character, err)
	}

	return deriveTags(ctx, q, in.Tags)
}
