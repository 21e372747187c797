// Package repository defines the data access interface for the hanzi store.
//
// The sqlite subpackage implements it on a single local SQLite file. Each
// operation is one statement, or one transaction where several statements
// must land together (character writes with their tags, batch
// replacement, imports).
//
// # Consistency Rules
//
// - Character text is unique; duplicates fail with domain.ErrDuplicateCharacter
// - Every character write adds its tags to the append-only tag registry
// - Update and delete of a missing id are successful no-ops
// - Batch and group character lists are stored verbatim and never checked
//   against the characters table
package repository
