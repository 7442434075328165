package config

import (
	"fmt"
	"os"

	"github.com/dyluth/agnr/internal/listing"
	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration when no --config flag is given.
const DefaultPath = "agnr.yml"

// AgnrConfig represents the top-level agnr.yml configuration
type AgnrConfig struct {
	Version    string            `yaml:"version"`
	Generation *GenerationConfig `yaml:"generation,omitempty"`
	Store      *StoreConfig      `yaml:"store,omitempty"`
	Output     *OutputConfig     `yaml:"output,omitempty"`
	Metrics    *MetricsConfig    `yaml:"metrics,omitempty"`
}

// GenerationConfig bounds the enumeration. Lengths count slices; widths are
// starting widths, so every slice is between 2·min_width and 2·max_width wide.
type GenerationConfig struct {
	MinLength     int  `yaml:"min_length"`
	MaxLength     int  `yaml:"max_length"`
	MinWidth      int  `yaml:"min_width"`
	MaxWidth      int  `yaml:"max_width"`
	SymmetricOnly bool `yaml:"symmetric_only,omitempty"`
	Workers       int  `yaml:"workers,omitempty"` // 0 = one per CPU
}

// StoreConfig points at the Redis catalog. An empty redis_url disables storage.
type StoreConfig struct {
	RedisURL  string `yaml:"redis_url,omitempty"`
	Namespace string `yaml:"namespace,omitempty"` // default: "default"
}

// OutputConfig selects how generated specs are written.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // jsonl, pairs, names or table; default jsonl
	Path   string `yaml:"path,omitempty"`   // empty or "-" = stdout
}

// MetricsConfig enables a Prometheus textfile written after each run.
type MetricsConfig struct {
	Path string `yaml:"path,omitempty"` // textfile written after the run
	Addr string `yaml:"addr,omitempty"` // serve /metrics and /healthz here during the run
}

// Default returns a validated configuration covering the lengths and widths of
// a typical ribbon survey.
func Default() *AgnrConfig {
	c := &AgnrConfig{
		Version: "1.0",
		Generation: &GenerationConfig{
			MinLength: 2,
			MaxLength: 12,
			MinWidth:  1,
			MaxWidth:  3,
		},
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return c
}

// Validate performs strict validation on the configuration and fills in
// defaults for omitted sections.
func (c *AgnrConfig) Validate() error {
	// Required: version
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	// Required: generation bounds
	if c.Generation == nil {
		return fmt.Errorf("generation section is required")
	}
	if err := c.Generation.Validate(); err != nil {
		return err
	}

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = "default"
	}
	if err := catalog.ValidateNamespace(c.Store.Namespace); err != nil {
		return fmt.Errorf("store.namespace: %w", err)
	}

	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.Format == "" {
		c.Output.Format = string(listing.OutputFormatJSONL)
	}
	if _, err := listing.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}

	return nil
}

// Validate checks the generation bounds.
func (g *GenerationConfig) Validate() error {
	if g.MinLength <= 0 {
		return fmt.Errorf("generation.min_length must be > 0, got %d", g.MinLength)
	}
	if g.MaxLength < g.MinLength {
		return fmt.Errorf("generation.max_length (%d) must be >= min_length (%d)", g.MaxLength, g.MinLength)
	}
	if g.MinWidth <= 0 {
		return fmt.Errorf("generation.min_width must be > 0, got %d", g.MinWidth)
	}
	if g.MaxWidth < g.MinWidth {
		return fmt.Errorf("generation.max_width (%d) must be >= min_width (%d)", g.MaxWidth, g.MinWidth)
	}
	if g.Workers < 0 {
		return fmt.Errorf("generation.workers must be >= 0 (0 = one per CPU), got %d", g.Workers)
	}
	return nil
}

// Options converts the generation bounds for ribbon.Enumerate.
func (g *GenerationConfig) Options() ribbon.Options {
	return ribbon.Options{
		MinLength:     g.MinLength,
		MaxLength:     g.MaxLength,
		MinWidth:      g.MinWidth,
		MaxWidth:      g.MaxWidth,
		SymmetricOnly: g.SymmetricOnly,
		Workers:       g.Workers,
	}
}

// Load reads and validates agnr.yml from the specified path
func Load(path string) (*AgnrConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config AgnrConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path if it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*AgnrConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Marshal renders the configuration as YAML.
func (c *AgnrConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
