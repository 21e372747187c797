// Package domain defines the record types of the hanzi vocabulary store.
//
// # Core Types
//
// Character is a single vocabulary entry: the character text (unique),
// its pinyin, meaning, proficiency level, tags, free-form notes (Other)
// and example sentences.
//
// Collection is a named blob of character references. Batch and Group are
// both collections; the blob is opaque to the store and conventionally a
// comma-joined list of ids or text forms.
//
// # Tag Encoding
//
// Tags are stored on a character as one comma-joined string with no
// escaping, so tag names never contain commas. Clients may submit either
// the joined string or a list (TagList); both normalize to the same names.
// Every name ever written is also kept in the append-only tag registry.
//
// # Export Document
//
// Snapshot is the JSON shape shared by export and import: characters
// (tags expanded to lists), batches, groups, tag names and settings.
package domain
