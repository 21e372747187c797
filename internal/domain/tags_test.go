package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"single joined string", []string{"hsk1,verb"}, []string{"hsk1", "verb"}},
		{"whitespace trimmed", []string{" hsk1 ,  verb "}, []string{"hsk1", "verb"}},
		{"empty names dropped", []string{",,hsk1,,"}, []string{"hsk1"}},
		{"list elements split on commas", []string{"a,b", "c"}, []string{"a", "b", "c"}},
		{"duplicates removed", []string{"a", "b", "a"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.input))
		})
	}
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "a,b", JoinTags([]string{" a", "b ", ""}))
	assert.Equal(t, "", JoinTags(nil))
}

func TestTagListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TagList
	}{
		{"comma string", `"noun, hsk2"`, TagList{"noun", "hsk2"}},
		{"list", `["noun","hsk2"]`, TagList{"noun", "hsk2"}},
		{"empty string", `""`, TagList{}},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TagList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad TagList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestCharacterInputDefaults(t *testing.T) {
	var in CharacterInput
	require.NoError(t, json.Unmarshal([]byte(`{"character":"好","tags":["adj"," hsk1"]}`), &in))

	c := in.ToCharacter(7)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "好", c.Character)
	assert.Equal(t, "", c.Pinyin)
	assert.Equal(t, "adj,hsk1", c.Tags)
	assert.Equal(t, []string{"adj", "hsk1"}, c.TagList())
}
