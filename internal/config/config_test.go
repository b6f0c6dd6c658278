package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// writeFile drops a config file into a test temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoad_EmptyPathUsesDefaults verifies that running without a config file
// yields the documented defaults.
func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, 3000, cfg.Random.RangeLow)
	assert.Equal(t, 9999, cfg.Random.RangeHigh)
	assert.Equal(t, 100, cfg.Random.MaxAttempts)
}

// TestLoad_YAML verifies YAML parsing and that unmentioned fields keep their
// defaults.
func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "portscout.yaml", `
listen: ":8088"
random:
  rangeLow: 4000
  rangeHigh: 4999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8088", cfg.Listen)
	assert.Equal(t, 4000, cfg.Random.RangeLow)
	assert.Equal(t, 4999, cfg.Random.RangeHigh)
	assert.Equal(t, 100, cfg.Random.MaxAttempts, "unset budget falls back to default")
}

// TestLoad_JSONC verifies that comments and trailing commas are tolerated in
// .jsonc files.
func TestLoad_JSONC(t *testing.T) {
	path := writeFile(t, "portscout.jsonc", `{
  // bind next to the dev server
  "listen": ":9091",
  "random": {
    "rangeLow": 3100,
    "rangeHigh": 3200,
    "maxAttempts": 25, // trailing comma below is fine too
  },
}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9091", cfg.Listen)
	assert.Equal(t, 3100, cfg.Random.RangeLow)
	assert.Equal(t, 3200, cfg.Random.RangeHigh)
	assert.Equal(t, 25, cfg.Random.MaxAttempts)
}

// TestLoad_RejectsUnknownExtension verifies the extension gate.
func TestLoad_RejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "portscout.toml", `listen = ":8080"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

// TestLoad_MissingFile verifies a readable error for a nonexistent path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

// TestLoad_InvalidRange verifies that a config file with an inverted range is
// rejected as a ValidationError at load time, not at request time.
func TestLoad_InvalidRange(t *testing.T) {
	path := writeFile(t, "bad.yaml", `
random:
  rangeLow: 5000
  rangeHigh: 4000
`)

	_, err := Load(path)
	require.Error(t, err)

	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// TestLoad_MalformedYAML verifies parse failures surface with the file path.
func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, "broken.yaml", "listen: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
