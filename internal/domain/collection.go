package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CharacterList is the opaque character-reference blob stored on batches
// and groups. The store never parses it; clients use comma-joined ids or
// text forms. A JSON array is accepted on input and joined with commas.
type CharacterList string

// UnmarshalJSON accepts a string, an array of strings or numbers, or null.
func (l *CharacterList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = CharacterList(s)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("characters must be a string or a list")
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			parts = append(parts, str)
			continue
		}
		parts = append(parts, strings.TrimSpace(string(item)))
	}
	*l = CharacterList(strings.Join(parts, ","))
	return nil
}

// Collection is a named, ordered set of character references. Batches
// and groups share this shape.
type Collection struct {
	ID         int64         `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Characters CharacterList `json:"characters" yaml:"characters"`
}

// Batch is a study batch; the table can be replaced wholesale.
type Batch = Collection

// Group is a user-defined group of characters.
type Group = Collection

// CollectionInput is the writable part of a batch or group.
type CollectionInput struct {
	Name       string        `json:"name"`
	Characters CharacterList `json:"characters"`
}

// ParseCollectionInputs decodes either a single object or an array of
// objects. The bool reports whether the body was an array.
func ParseCollectionInputs(data []byte) ([]CollectionInput, bool, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return []CollectionInput{{}}, false, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []CollectionInput
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, true, err
		}
		return list, true, nil
	}

	var one CollectionInput
	if err := json.Unmarshal([]byte(trimmed), &one); err != nil {
		return nil, false, err
	}
	return []CollectionInput{one}, false, nil
}
