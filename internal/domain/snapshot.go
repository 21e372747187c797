package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SnapshotCharacter is a character as it appears in an export document:
// tags are expanded to a list and the id is optional on import.
type SnapshotCharacter struct {
	ID        int64   `json:"id,omitempty" yaml:"id,omitempty"`
	Character string  `json:"character" yaml:"character"`
	Pinyin    string  `json:"pinyin" yaml:"pinyin"`
	Meaning   string  `json:"meaning" yaml:"meaning"`
	Level     string  `json:"level" yaml:"level"`
	Tags      TagList `json:"tags" yaml:"tags"`
	Other     string  `json:"other" yaml:"other"`
	Examples  string  `json:"examples" yaml:"examples"`
}

// NewSnapshotCharacter expands a stored character for export.
func NewSnapshotCharacter(c Character) SnapshotCharacter {
	return SnapshotCharacter{
		ID:        c.ID,
		Character: c.Character,
		Pinyin:    c.Pinyin,
		Meaning:   c.Meaning,
		Level:     c.Level,
		Tags:      TagList(c.TagList()),
		Other:     c.Other,
		Examples:  c.Examples,
	}
}

// Input returns the writable fields.
func (c SnapshotCharacter) Input() CharacterInput {
	return CharacterInput{
		Character: c.Character,
		Pinyin:    c.Pinyin,
		Meaning:   c.Meaning,
		Level:     c.Level,
		Tags:      c.Tags,
		Other:     c.Other,
		Examples:  c.Examples,
	}
}

// Settings maps setting keys to values. Non-string JSON values are
// coerced the same way the settings endpoint coerces them.
type Settings map[string]string

// UnmarshalJSON decodes an object of arbitrary JSON values.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Settings, len(raw))
	for k, v := range raw {
		out[k] = CoerceSettingValue(v)
	}
	*s = out
	return nil
}

// Snapshot is the full-database export document. On import a nil Batches
// or Groups slice means the key was absent and the table is left alone; an
// empty slice clears it.
type Snapshot struct {
	Characters []SnapshotCharacter `json:"characters" yaml:"characters"`
	Batches    []Batch             `json:"batches" yaml:"batches"`
	Groups     []Group             `json:"groups" yaml:"groups"`
	Tags       []string            `json:"tags" yaml:"tags"`
	Settings   Settings            `json:"settings" yaml:"settings"`
}

// ParseSnapshot decodes either a full export document or a bare array of
// characters.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty import document")
	}

	if trimmed[0] == '[' {
		var chars []SnapshotCharacter
		if err := json.Unmarshal(trimmed, &chars); err != nil {
			return nil, fmt.Errorf("parse character list: %w", err)
		}
		return &Snapshot{Characters: chars}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, fmt.Errorf("parse export document: %w", err)
	}
	return &snap, nil
}

// ImportStats counts the rows written by an import.
type ImportStats struct {
	Characters int `json:"characters"`
	Batches    int `json:"batches"`
	Groups     int `json:"groups"`
	Tags       int `json:"tags"`
	Settings   int `json:"settings"`
}
