// Package config loads fnctx settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/fnctx/internal/extract"
	"github.com/phobologic/fnctx/internal/lang"
)

// FileName is the per-project config file looked up under the project root.
const FileName = ".fnctx.yaml"

// Parser names.
const (
	ParserPattern    = "pattern"
	ParserTreeSitter = "treesitter"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of a run.
type Config struct {
	Language      string   `yaml:"language"`
	Extension     string   `yaml:"extension"`
	MaxBodyWindow int      `yaml:"max_body_window"`
	Workers       int      `yaml:"workers"`
	Parser        string   `yaml:"parser"`
	Exclude       []string `yaml:"exclude"`
	Gitignore     bool     `yaml:"gitignore"`
	IgnoreCalls   []string `yaml:"ignore_calls"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Language:      "rust",
		Extension:     ".rs",
		MaxBodyWindow: extract.DefaultWindow,
		Workers:       runtime.GOMAXPROCS(0),
		Parser:        ParserPattern,
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit when non-empty, else root/.fnctx.yaml when it
// exists, else the defaults.
func Discover(root, explicit string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate normalises the extension and checks value ranges.
// An empty language is inferred from the extension.
func (c *Config) Validate() error {
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.Language == "" {
		c.Language = lang.ForExtension(c.Extension)
	}
	l, ok := lang.Languages[c.Language]
	if !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	if c.Extension == "" {
		c.Extension = l.Extensions[0]
	}
	if c.MaxBodyWindow <= 0 {
		return fmt.Errorf("%w: max_body_window must be positive, got %d", ErrInvalidConfig, c.MaxBodyWindow)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	switch c.Parser {
	case ParserPattern, ParserTreeSitter:
	default:
		return fmt.Errorf("%w: unknown parser %q", ErrInvalidConfig, c.Parser)
	}
	return nil
}

// Extractor builds the configured extractor.
func (c *Config) Extractor() (extract.Extractor, error) {
	l, ok := lang.Languages[c.Language]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language)
	}
	if c.Parser == ParserTreeSitter {
		return extract.NewTreeSitter(l, c.IgnoreCalls)
	}
	return extract.NewPattern(l, c.MaxBodyWindow, c.IgnoreCalls), nil
}
