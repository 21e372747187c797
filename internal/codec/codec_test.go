package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hanzi/internal/domain"
)

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Characters: []domain.SnapshotCharacter{
			{ID: 1, Character: "好", Pinyin: "hǎo", Meaning: "good", Level: "1", Tags: domain.TagList{"adj", "hsk1"}},
			{ID: 2, Character: "人", Pinyin: "rén", Tags: domain.TagList{}},
		},
		Batches:  []domain.Batch{{ID: 1, Name: "week 1", Characters: "1,2"}},
		Groups:   []domain.Group{},
		Tags:     []string{"adj", "hsk1"},
		Settings: domain.Settings{domain.LastReviewedKey: "2"},
	}
}

func TestNewImporterAndExporter(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "json"},
		{"json", "json"},
		{"yaml", "yaml"},
		{"yml", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			imp, err := NewImporter(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, imp.Format())

			exp, err := NewExporter(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.Format())
		})
	}

	imp, err := NewImporter("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", imp.Format())

	_, err = NewExporter("legacy")
	assert.Error(t, err)
	_, err = NewImporter("csv")
	assert.Error(t, err)
}

func TestJSONExportKeepsUnicode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleSnapshot(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"character": "好"`)
	assert.Contains(t, out, `"pinyin": "hǎo"`)
	assert.Contains(t, out, `"tags": [
        "adj",
        "hsk1"
      ]`)
	assert.NotContains(t, out, `\u`)
}

func TestJSONRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	c := NewJSONCodec()

	var buf bytes.Buffer
	require.NoError(t, c.Export(snap, &buf))

	got, err := c.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestJSONParseBareArray(t *testing.T) {
	got, err := NewJSONCodec().Parse(strings.NewReader(`[{"character": "大", "tags": "big, hsk1"}]`))
	require.NoError(t, err)

	require.Len(t, got.Characters, 1)
	assert.Equal(t, domain.TagList{"big", "hsk1"}, got.Characters[0].Tags)
	assert.Nil(t, got.Batches)
	assert.Nil(t, got.Groups)
}

func TestJSONParseMalformed(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader(`{"characters": [`))
	assert.Error(t, err)

	_, err = NewJSONCodec().Parse(strings.NewReader("  "))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	snap := sampleSnapshot()
	c := NewYAMLCodec()

	var buf bytes.Buffer
	require.NoError(t, c.Export(snap, &buf))
	assert.Contains(t, buf.String(), "character: 好")

	got, err := c.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestYAMLParse(t *testing.T) {
	t.Run("document with comma tags", func(t *testing.T) {
		doc := `
characters:
  - character: 水
    tags: water, element
settings:
  last_reviewed_character: 7
`
		got, err := NewYAMLCodec().Parse(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, got.Characters, 1)
		assert.Equal(t, domain.TagList{"water", "element"}, got.Characters[0].Tags)
		assert.Equal(t, "7", got.Settings[domain.LastReviewedKey])
		assert.Nil(t, got.Batches, "absent key leaves batches alone")
	})

	t.Run("bare sequence", func(t *testing.T) {
		got, err := NewYAMLCodec().Parse(strings.NewReader("- character: 火\n- character: 土\n"))
		require.NoError(t, err)
		require.Len(t, got.Characters, 2)
		assert.Equal(t, "土", got.Characters[1].Character)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewYAMLCodec().Parse(strings.NewReader(""))
		assert.Error(t, err)
	})
}
