package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hanzi/internal/config"
	"hanzi/internal/domain"
	"hanzi/internal/repository/sqlite"
)

// run executes hanzictl with args and returns its combined output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedDB(t *testing.T, path string) {
	t.Helper()
	repo, err := sqlite.New(path)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	_, err = repo.CreateCharacter(ctx, domain.CharacterInput{Character: "好", Tags: domain.TagList{"adj"}})
	require.NoError(t, err)
	_, err = repo.CreateBatch(ctx, domain.CollectionInput{Name: "b", Characters: "1"})
	require.NoError(t, err)
	require.NoError(t, repo.SetSetting(ctx, domain.LastReviewedKey, "1"))
}

func exportOf(t *testing.T, path string) *domain.Snapshot {
	t.Helper()
	repo, err := sqlite.New(path)
	require.NoError(t, err)
	defer repo.Close()

	snap, err := repo.Export(context.Background())
	require.NoError(t, err)
	return snap
}

func TestExportImportRoundTrip(t *testing.T) {
	for _, name := range []string{"dump.json", "dump.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			source := filepath.Join(dir, "source.db")
			target := filepath.Join(dir, "target.db")
			dump := filepath.Join(dir, name)
			seedDB(t, source)

			out, err := run(t, "export", dump, source)
			require.NoError(t, err, out)
			assert.Contains(t, out, "Exported 1 characters, 1 batches, 0 groups")

			out, err = run(t, "import", dump, target)
			require.NoError(t, err, out)
			assert.Contains(t, out, "Imported 1 characters")

			assert.Equal(t, exportOf(t, source), exportOf(t, target))
		})
	}
}

func TestExportToStdout(t *testing.T) {
	db := filepath.Join(t.TempDir(), "hanzi.db")
	seedDB(t, db)

	out, err := run(t, "export", "-", db)
	require.NoError(t, err)

	snap, err := domain.ParseSnapshot([]byte(out))
	require.NoError(t, err)
	assert.Len(t, snap.Characters, 1)
}

func TestExportBadFormatLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "hanzi.db")
	dump := filepath.Join(dir, "dump.xml")

	_, err := run(t, "export", "--format", "xml", dump, db)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "dump")
		assert.NotContains(t, e.Name(), ".hanzi-export")
	}
}

func TestImportLegacy(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "hanzi.db")
	in := filepath.Join(dir, "legacy.ndjson")
	require.NoError(t, os.WriteFile(in, []byte(
		`{"_id":{"$oid":"b"},"character":"月","tags":["moon"],"other":"plain"}`+"\n"+
			`{"_id":{"$oid":"a"},"character":"日","other":"note text Ejemplos: example text"}`+"\n"), 0644))

	out, err := run(t, "import-legacy", in, db)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 characters")

	snap := exportOf(t, db)
	require.Len(t, snap.Characters, 2)
	assert.Equal(t, "日", snap.Characters[0].Character)
	assert.Equal(t, "note text", snap.Characters[0].Other)
	assert.Equal(t, "example text", snap.Characters[0].Examples)
	assert.Equal(t, []string{"moon"}, snap.Tags)
}

func TestImportMalformedWritesNothing(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "hanzi.db")
	in := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"characters":[{"character":"水"},`), 0644))

	_, err := run(t, "import", in, db)
	require.Error(t, err)

	assert.Empty(t, exportOf(t, db).Characters)
}

func TestMissingArgumentsFail(t *testing.T) {
	for _, name := range []string{"export", "import", "import-legacy"} {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, name)
			require.Error(t, err)
			assert.Contains(t, out, "Usage:")
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "import", filepath.Join(dir, "nope.json"), filepath.Join(dir, "hanzi.db"))
	assert.Error(t, err)
}

func TestDBPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "env.db")
	seedDB(t, db)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(config.EnvDBPath, db)
	t.Chdir(dir)

	out, err := run(t, "export", filepath.Join(dir, "out.json"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 1 characters")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hanzi.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err, out)
	assert.FileExists(t, path)

	_, err = run(t, "config", "init", path)
	assert.Error(t, err, "init refuses to overwrite")

	t.Setenv(config.EnvConfigPath, path)
	t.Setenv(config.EnvDBPath, "")
	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "db=hanzi.db")
}
