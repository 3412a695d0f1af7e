package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixture lays out a minimal source tree plus a config file pointing
// at it, and returns the config path.
func writeFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "texts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "texts", "kjv_strongs.json"), []byte(`{
	  "metadata": {"id": "kjv_strongs", "name": "KJV with Strong's", "lang": "en"},
	  "verses": [
	    {"book": 1, "chapter": 1, "verse": 1, "text": "In the beginning{H7225} God{H430} created{H1254}"}
	  ]
	}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "strongs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "strongs", "hebrew.json"),
		[]byte(`{"H430": {"lemma": "אֱלֹהִים", "translit": "elohiym", "defs": {"strongs": "gods"}}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "strongs", "greek.json"),
		[]byte(`{"0": {"strongs": 2316, "original_word": "θεός", "transliteration": "theos", "definition": {"short": "god"}}}`), 0o644))

	cfgPath := filepath.Join(root, "biblefetch.yaml")
	cfg := fmt.Sprintf("paths:\n  assets: %s\nindex:\n  translations: [kjv_strongs]\n", root)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestGenerateCmd_FullRunThenLookup(t *testing.T) {
	cfgPath := writeFixture(t)

	// Given: a full generation run over the fixture tree
	_, err := run(t, "generate", "--config", cfgPath)
	require.NoError(t, err)

	assets := filepath.Dir(cfgPath)
	assert.FileExists(t, filepath.Join(assets, "bibles", "kjv_strongs", "gen", "1.json"))
	assert.FileExists(t, filepath.Join(assets, "report.json"))

	// When: querying the tree the way a consumer would
	out, err := run(t, "lookup", "word", "God", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gen-1-1")

	out, err = run(t, "lookup", "strongs", "H430", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gen-1-1")

	out, err = run(t, "lookup", "define", "H430", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "elohiym")
	assert.Contains(t, out, "gods")

	out, err = run(t, "lookup", "original", "elohiym", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gen-1-1")
}

func TestGenerateCmd_SingleStageSubcommand(t *testing.T) {
	cfgPath := writeFixture(t)

	_, err := run(t, "generate", "bibles", "--config", cfgPath)
	require.NoError(t, err)

	assets := filepath.Dir(cfgPath)
	assert.FileExists(t, filepath.Join(assets, "bibles", "kjv_strongs", "index.json"))
	assert.NoFileExists(t, filepath.Join(assets, "index", "strongs", "H430.json"))
}

func TestGenerateCmd_UnknownOnlyStage(t *testing.T) {
	cfgPath := writeFixture(t)

	_, err := run(t, "generate", "--config", cfgPath, "--only", "topics")
	assert.Error(t, err)
}
