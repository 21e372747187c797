package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"hanzi/internal/domain"
)

// ExamplesMarker introduces the examples section inside a legacy "other" note.
const ExamplesMarker = "Ejemplos:"

// maxLegacyLine bounds a single NDJSON record.
const maxLegacyLine = 4 * 1024 * 1024

// LegacyCodec reads the old line-delimited export, one JSON object per line.
type LegacyCodec struct{}

// NewLegacyCodec creates a new legacy codec
func NewLegacyCodec() *LegacyCodec {
	return &LegacyCodec{}
}

// Format returns the codec format identifier
func (c *LegacyCodec) Format() string {
	return "legacy"
}

// legacyID is the record identifier, either {"$oid": "..."} or a plain string.
type legacyID string

func (id *legacyID) UnmarshalJSON(data []byte) error {
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(data, &oid); err == nil {
		*id = legacyID(oid.OID)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("_id must be an object or a string")
	}
	*id = legacyID(s)
	return nil
}

type legacyRecord struct {
	ID        legacyID       `json:"_id"`
	Character string         `json:"character"`
	Pinyin    string         `json:"pinyin"`
	Meaning   string         `json:"meaning"`
	Level     string         `json:"level"`
	Tags      domain.TagList `json:"tags"`
	Other     string         `json:"other"`
}

func (rec legacyRecord) toSnapshotCharacter() domain.SnapshotCharacter {
	notes, examples := SplitExamples(rec.Other)
	return domain.SnapshotCharacter{
		Character: rec.Character,
		Pinyin:    rec.Pinyin,
		Meaning:   rec.Meaning,
		Level:     rec.Level,
		Tags:      rec.Tags,
		Other:     notes,
		Examples:  examples,
	}
}

// SplitExamples splits a legacy note on the first ExamplesMarker. Both
// parts are trimmed; without the marker the whole text is the note.
func SplitExamples(text string) (notes, examples string) {
	before, after, found := strings.Cut(text, ExamplesMarker)
	if !found {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// Parse reads every record, orders them by identifier and returns a
// characters-only snapshot. Records carry no ids, so importing it upserts
// by text form. Blank lines are skipped; any malformed line fails the parse.
func (c *LegacyCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLegacyLine)

	var records []legacyRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec legacyRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legacy file: %w", err)
	}

	// Identifiers are opaque strings, so order is lexicographic.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})

	snap := &domain.Snapshot{Characters: make([]domain.SnapshotCharacter, 0, len(records))}
	for _, rec := range records {
		snap.Characters = append(snap.Characters, rec.toSnapshotCharacter())
	}
	return snap, nil
}
