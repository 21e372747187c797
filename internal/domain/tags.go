package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagSeparator joins tags in their stored form. Tags are not escaped, so a
// tag name can never contain it.
const TagSeparator = ","

// ParseTags splits a stored or submitted tag string into tag names.
func ParseTags(raw string) []string {
	return NormalizeTags([]string{raw})
}

// NormalizeTags flattens comma-joined elements, trims whitespace, drops
// empty names and duplicates. First occurrence wins the position.
func NormalizeTags(raw []string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, item := range raw {
		for _, part := range strings.Split(item, TagSeparator) {
			name := strings.TrimSpace(part)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// JoinTags returns the stored form of a tag list.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), TagSeparator)
}

// TagList is a tag field as submitted by clients: either a comma-joined
// string or an array of strings. It always holds normalized names.
type TagList []string

// UnmarshalJSON accepts "a,b", ["a","b"] or null.
func (t *TagList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTags(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or a list of strings")
	}
	*t = NormalizeTags(list)
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (t *TagList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*t = nil
			return nil
		}
		*t = ParseTags(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("tags must be a string or a list of strings")
		}
		*t = NormalizeTags(list)
		return nil
	}
	return fmt.Errorf("tags must be a string or a list of strings")
}

// String returns the stored comma-joined form.
func (t TagList) String() string {
	return JoinTags(t)
}
