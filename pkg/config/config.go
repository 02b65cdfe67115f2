// Package config loads clonewatch's configuration from TOML/YAML/JSON
// files with a CLONEWATCH_-prefixed environment overlay, following a
// koanf-based precedence chain and aggregate-validation style. CLI flag
// overlays are applied by cmd/clonewatch directly onto the loaded *Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix every recognized environment variable must carry.
// Nested keys use a double underscore as the level separator, e.g.
// CLONEWATCH_CLONE__NOISE_THRESHOLD maps to clone.noise_threshold.
const envPrefix = "CLONEWATCH_"

// Config holds all configuration options for clonewatch.
type Config struct {
	Clone  CloneConfig  `koanf:"clone" toml:"clone"`
	Corpus CorpusConfig `koanf:"corpus" toml:"corpus"`
	Cache  CacheConfig  `koanf:"cache" toml:"cache"`
	Output OutputConfig `koanf:"output" toml:"output"`
}

// CloneConfig configures the detection pipeline in pkg/clone.
type CloneConfig struct {
	NoiseThreshold      int     `koanf:"noise_threshold" toml:"noise_threshold"`
	GuaranteeThreshold  int     `koanf:"guarantee_threshold" toml:"guarantee_threshold"`
	MaxTokenOffset      int     `koanf:"max_token_offset" toml:"max_token_offset"`
	TokenizingStrategy  string  `koanf:"tokenizing_strategy" toml:"tokenizing_strategy"` // bytes|naive|relative
	IgnoreWhitespace    bool    `koanf:"ignore_whitespace" toml:"ignore_whitespace"`
	ExpandMatches       bool    `koanf:"expand_matches" toml:"expand_matches"`
	MinMatches          int     `koanf:"min_matches" toml:"min_matches"`
	CommonHashThreshold float64 `koanf:"common_hash_threshold" toml:"common_hash_threshold"` // 0 = disabled
}

// CorpusConfig configures corpus discovery in pkg/corpus.
type CorpusConfig struct {
	StarterDir string   `koanf:"starter_dir" toml:"starter_dir"`
	Patterns   []string `koanf:"patterns" toml:"patterns"` // gitignore-syntax excludes
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls the intra-run content-digest memoization described
// in pkg/corpus. It intentionally has no TTL or directory fields: this
// cache never survives past one corpus Scan call (see DESIGN.md).
type CacheConfig struct {
	Enabled bool `koanf:"enabled" toml:"enabled"`
}

// OutputConfig controls pkg/report output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults. NoiseThreshold and
// GuaranteeThreshold default to a reasonable middle ground for a single
// semester's worth of short ARM assembly assignments; a corpus with
// longer or shorter plausible plagiarism runs should override them
// explicitly.
func DefaultConfig() *Config {
	return &Config{
		Clone: CloneConfig{
			NoiseThreshold:      16,
			GuaranteeThreshold:  24,
			MaxTokenOffset:      0,
			TokenizingStrategy:  "relative",
			IgnoreWhitespace:    true,
			ExpandMatches:       true,
			MinMatches:          1,
			CommonHashThreshold: 0.75,
		},
		Corpus: CorpusConfig{
			Patterns: []string{
				"*.o",
				"*.bin",
				"*.elf",
				"*.map",
				"*.lst",
				"build/",
				"bin/",
				".git/",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, selecting a parser from the file
// extension (falling back to TOML when the extension is unrecognized).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := loadEnvOverlay(k); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvOverlay layers environment-variable overrides on top of whatever
// the file provider already populated, following defaults -> file -> env
// precedence.
func loadEnvOverlay(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, "__", ".")
			return key, value
		},
	}), nil)
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path if found, or empty string if not found.
func FindConfigFile() string {
	names := []string{"clonewatch.toml", "clonewatch.yaml", "clonewatch.yml", "clonewatch.json"}
	dirs := []string{".", ".clonewatch"}

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOption configures how configuration is loaded.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
}

// WithPath specifies an explicit config file path.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// LoadResult contains the loaded configuration and metadata.
type LoadResult struct {
	Config *Config
	Source string // Path to the config file, empty if using defaults
}

// LoadConfig loads configuration with the provided options, following
// defaults -> file -> environment -> flags precedence. Environment
// variables prefixed CLONEWATCH_ are layered in by Load (or, absent a
// config file, directly over the defaults below); flag overlays are
// applied by cmd/clonewatch after this call, against the already-loaded
// *Config. Always validates the config before returning.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var cfg *Config
	var source string
	var err error

	if o.path != "" {
		if _, statErr := os.Stat(o.path); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("config file not found: %s", o.path)
		}
		cfg, err = Load(o.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", o.path, err)
		}
		source = o.path
	} else {
		source = FindConfigFile()
		if source == "" {
			cfg = DefaultConfig()
			k := koanf.New(".")
			if envErr := loadEnvOverlay(k); envErr != nil {
				return nil, envErr
			}
			if unmarshalErr := k.Unmarshal("", cfg); unmarshalErr != nil {
				return nil, unmarshalErr
			}
		} else {
			cfg, err = Load(source)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", source, err)
			}
		}
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("config validation failed: %w", validationErr)
	}
	return &LoadResult{Config: cfg, Source: source}, nil
}

// LoadOrDefault loads config from standard locations or returns defaults.
func LoadOrDefault() (*Config, error) {
	result, err := LoadConfig()
	if err != nil {
		if FindConfigFile() == "" {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return result.Config, nil
}

// Validate checks that all config values are within acceptable ranges,
// aggregating every violation via errors.Join rather than stopping at the
// first bad field.
func (c *Config) Validate() error {
	var errs []error

	if c.Clone.NoiseThreshold < 1 {
		errs = append(errs, errors.New("clone.noise_threshold must be at least 1"))
	}
	switch c.Clone.TokenizingStrategy {
	case "bytes", "byte", "naive", "relative":
	default:
		errs = append(errs, fmt.Errorf("clone.tokenizing_strategy must be one of bytes|naive|relative, got %q", c.Clone.TokenizingStrategy))
	}
	maxOffset := c.Clone.MaxTokenOffset
	if c.Clone.TokenizingStrategy != "relative" && maxOffset != 0 {
		errs = append(errs, errors.New("clone.max_token_offset must be 0 unless tokenizing_strategy is relative"))
	}
	if c.Clone.GuaranteeThreshold < c.Clone.NoiseThreshold+maxOffset {
		errs = append(errs, fmt.Errorf(
			"clone.guarantee_threshold must be at least noise_threshold + max_token_offset (%d)",
			c.Clone.NoiseThreshold+maxOffset))
	}
	if c.Clone.IgnoreWhitespace && (c.Clone.TokenizingStrategy == "bytes" || c.Clone.TokenizingStrategy == "byte") {
		errs = append(errs, errors.New("clone.ignore_whitespace is not supported when tokenizing_strategy is bytes"))
	}
	if c.Clone.MinMatches < 0 {
		errs = append(errs, errors.New("clone.min_matches must be non-negative"))
	}
	if c.Clone.CommonHashThreshold != 0 && (c.Clone.CommonHashThreshold < 0 || c.Clone.CommonHashThreshold > 1) {
		errs = append(errs, errors.New("clone.common_hash_threshold must be in (0, 1] when set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
