package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/fnctx/internal/extract"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, ".rs", cfg.Extension)
	assert.Equal(t, extract.DefaultWindow, cfg.MaxBodyWindow)
	assert.Equal(t, ParserPattern, cfg.Parser)
	assert.Positive(t, cfg.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `
extension: rs
max_body_window: 800
parser: treesitter
exclude:
  - target
  - "**/generated/**"
gitignore: true
ignore_calls: [log_event]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".rs", cfg.Extension)
	assert.Equal(t, 800, cfg.MaxBodyWindow)
	assert.Equal(t, ParserTreeSitter, cfg.Parser)
	assert.Equal(t, []string{"target", "**/generated/**"}, cfg.Exclude)
	assert.True(t, cfg.Gitignore)
	assert.Equal(t, []string{"log_event"}, cfg.IgnoreCalls)
	assert.Equal(t, "rust", cfg.Language)
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Extension, cfg.Extension)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad parser", "parser: antlr\n"},
		{"bad window", "max_body_window: 0\n"},
		{"bad language", "language: cobol\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, t.TempDir(), "parser: antlr\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateInfersLanguage(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Language = ""
	cfg.Extension = "rs"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "rust", cfg.Language)
	assert.Equal(t, ".rs", cfg.Extension)

	cfg = Default()
	cfg.Language = ""
	cfg.Extension = ".py"
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, Default().Parser, cfg.Parser)

	writeConfig(t, dir, "max_body_window: 42\n")
	cfg, err = Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxBodyWindow)

	other := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(other, []byte("workers: 3\n"), 0o644))
	cfg, err = Discover(dir, other)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, extract.DefaultWindow, cfg.MaxBodyWindow)

	_, err = Discover(dir, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestExtractorSelection(t *testing.T) {
	t.Parallel()

	cfg := Default()
	ex, err := cfg.Extractor()
	require.NoError(t, err)
	assert.IsType(t, &extract.Pattern{}, ex)

	cfg.Parser = ParserTreeSitter
	ex, err = cfg.Extractor()
	require.NoError(t, err)
	assert.IsType(t, &extract.TreeSitter{}, ex)
}
