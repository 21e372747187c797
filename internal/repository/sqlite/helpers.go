package sqlite

import (
	"database/sql"

	"hanzi/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// The tables keep the column layout of the original database files so
// existing hanzi.db files open unchanged. Every text column is nullable;
// rows written by older tools may hold NULL where this code writes "".
//
// To add a column to characters:
// 1. Add field to characterRow (below) and domain.Character
// 2. APPEND it to scanArgs() and characterColumns in the same position
// 3. Map it in toDomain()
// 4. Add it to the INSERT/UPDATE statements in characters.go

// ============================================================================
// Character Row Scanner
// ============================================================================

// characterRow holds all columns from a character query for scanning
type characterRow struct {
	ID        int64
	Character sql.NullString
	Pinyin    sql.NullString
	Meaning   sql.NullString
	Level     sql.NullString
	Tags      sql.NullString
	Other     sql.NullString
	Examples  sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match characterColumns order exactly
func (r *characterRow) scanArgs() []any {
	return []any{
		&r.ID,        // 1
		&r.Character, // 2
		&r.Pinyin,    // 3
		&r.Meaning,   // 4
		&r.Level,     // 5
		&r.Tags,      // 6
		&r.Other,     // 7
		&r.Examples,  // 8
	}
}

// toDomain converts the scanned row to a domain.Character
func (r *characterRow) toDomain() domain.Character {
	return domain.Character{
		ID:        r.ID,
		Character: nullToString(r.Character),
		Pinyin:    nullToString(r.Pinyin),
		Meaning:   nullToString(r.Meaning),
		Level:     nullToString(r.Level),
		Tags:      nullToString(r.Tags),
		Other:     nullToString(r.Other),
		Examples:  nullToString(r.Examples),
	}
}

// characterColumns is the SELECT column list for character queries
const characterColumns = `id, character, pinyin, meaning, level, tags, other, examples`

// characterValues returns the writable columns in characterColumns order,
// without the id.
func characterValues(in domain.CharacterInput) []any {
	return []any{
		in.Character,
		in.Pinyin,
		in.Meaning,
		in.Level,
		in.Tags.String(),
		in.Other,
		in.Examples,
	}
}

// ============================================================================
// Collection Row Scanner
// ============================================================================

// collectionRow holds the columns shared by batches and groups
type collectionRow struct {
	ID         int64
	Name       sql.NullString
	Characters sql.NullString
}

func (r *collectionRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Characters}
}

func (r *collectionRow) toDomain() domain.Collection {
	return domain.Collection{
		ID:         r.ID,
		Name:       nullToString(r.Name),
		Characters: domain.CharacterList(nullToString(r.Characters)),
	}
}

const collectionColumns = `id, name, characters`
