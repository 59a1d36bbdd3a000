package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elizaos/eliza-go/pkg/types"
)

func TestParseCharacterYAML(t *testing.T) {
	data := []byte(`
name: Eliza
bio:
  - A helpful assistant.
  - Loves puzzles.
system: You are Eliza.
topics: [weather, chess]
settings:
  model: gpt-4o
`)

	c, err := ParseCharacterYAML(data)
	require.NoError(t, err)

	assert.Equal(t, "Eliza", c.Name)
	assert.Equal(t, types.StringOrList{"A helpful assistant.", "Loves puzzles."}, c.Bio)
	assert.Equal(t, "You are Eliza.", c.System)
	assert.Equal(t, "gpt-4o", c.Settings["model"])
}

func TestParseCharacterYAMLBioSingleString(t *testing.T) {
	c, err := ParseCharacterYAML([]byte("name: Eliza\nbio: Just one line.\n"))
	require.NoError(t, err)
	assert.Equal(t, types.StringOrList{"Just one line."}, c.Bio)
}

func TestParseCharacterYAMLUnknownKeyRejected(t *testing.T) {
	_, err := ParseCharacterYAML([]byte("name: Eliza\nnot_a_field: true\n"))
	assert.Error(t, err)
}

func TestParseCharacterJSON(t *testing.T) {
	data := []byte(`{
		"name": "Eliza",
		"bio": "One liner.",
		"knowledge": ["bare fact", {"path": "docs/guide.md"}]
	}`)

	c, err := ParseCharacterJSON(data)
	require.NoError(t, err)

	assert.Equal(t, "Eliza", c.Name)
	require.Len(t, c.Knowledge, 2)
	assert.Equal(t, "bare fact", c.Knowledge[0].Text)
	assert.Equal(t, "docs/guide.md", c.Knowledge[1].Path)
}

func TestParseCharacterJSONUnknownKeyRejected(t *testing.T) {
	_, err := ParseCharacterJSON([]byte(`{"name": "Eliza", "bogus": 1}`))
	assert.Error(t, err)
}

func TestParseCharacterMissingName(t *testing.T) {
	_, err := ParseCharacterYAML([]byte("system: hello\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidCharacter)
}

func TestParseCharacterEnvExpansion(t *testing.T) {
	t.Setenv("ELIZA_TEST_MODEL", "gpt-4o-mini")

	c, err := ParseCharacterYAML([]byte(`
name: Eliza
settings:
  model: ${ELIZA_TEST_MODEL}
  region: ${ELIZA_TEST_MISSING:-us-east-1}
`))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.Settings["model"])
	assert.Equal(t, "us-east-1", c.Settings["region"])
}

func TestLoadCharacterByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "eliza.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: FromYAML\n"), 0o644))

	jsonPath := filepath.Join(dir, "eliza.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "FromJSON"}`), 0o644))

	c, err := LoadCharacter(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "FromYAML", c.Name)

	c, err = LoadCharacter(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "FromJSON", c.Name)

	_, err = LoadCharacter(filepath.Join(dir, "eliza.toml"))
	assert.Error(t, err)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ELIZA_TEST_VAR", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"no refs", "no refs"},
		{"${ELIZA_TEST_VAR}", "value"},
		{"$ELIZA_TEST_VAR", "value"},
		{"${ELIZA_TEST_UNSET:-fallback}", "fallback"},
		{"${ELIZA_TEST_VAR:-fallback}", "value"},
		{"prefix-${ELIZA_TEST_VAR}-suffix", "prefix-value-suffix"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandEnvVars(tt.in), tt.in)
	}
}
