// Package config loads the catalog configuration: schema versions, topic
// categories and data feeds. Infrastructure settings come from the
// environment in main; this file covers what the query and import paths need.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bioenergy-org/catalog-core/internal/core/domain"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid catalog config")
)

// Catalog is the YAML catalog configuration.
type Catalog struct {
	DefaultSchemaVersion string                 `yaml:"default_schema_version"`
	Schemas              []domain.SchemaVersion `yaml:"schemas"`
	Categories           map[string][]string    `yaml:"categories"`
	Feeds                []domain.Feed          `yaml:"feeds"`

	// path is the file this config was loaded from, empty for the embedded default
	path string
}

// Default returns the embedded configuration.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Load reads the catalog file at path. An empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes and validates YAML.
func Parse(data []byte) (*Catalog, error) {
	var cfg Catalog
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the file the config was loaded from, or "" for the default.
func (c *Catalog) Path() string {
	return c.path
}

// Validate checks schema versions, keywords and feeds.
func (c *Catalog) Validate() error {
	if strings.TrimSpace(c.DefaultSchemaVersion) == "" {
		return fmt.Errorf("%w: default_schema_version is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Schemas))
	for _, s := range c.Schemas {
		if strings.TrimSpace(s.Version) == "" {
			return fmt.Errorf("%w: schema with empty version", ErrInvalidConfig)
		}
		if seen[s.Version] {
			return fmt.Errorf("%w: duplicate schema version %q", ErrInvalidConfig, s.Version)
		}
		seen[s.Version] = true
	}

	for name, keywords := range c.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: category with empty name", ErrInvalidConfig)
		}
		for _, kw := range keywords {
			if kw != strings.ToLower(kw) {
				return fmt.Errorf("%w: category %q keyword %q must be lower-case", ErrInvalidConfig, name, kw)
			}
		}
	}

	for i, f := range c.Feeds {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: feed %d has no name", ErrInvalidConfig, i)
		}
	}
	return nil
}

// SchemaRegistry returns the schema versions as a domain registry.
func (c *Catalog) SchemaRegistry() domain.SchemaRegistry {
	versions := make([]domain.SchemaVersion, len(c.Schemas))
	copy(versions, c.Schemas)
	return domain.SchemaRegistry{Default: c.DefaultSchemaVersion, Versions: versions}
}

// CategorySet returns the topic categories.
func (c *Catalog) CategorySet() domain.CategorySet {
	return domain.NewCategorySet(c.Categories)
}
