package template

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphaelreyna/liquette/pkg/compiler"
	"github.com/raphaelreyna/liquette/pkg/template/filter"
	"github.com/raphaelreyna/liquette/pkg/template/tag"
	templatingengine "github.com/raphaelreyna/liquette/pkg/template/templating-engine"
)

// FeatureSet selects which tags and filters an engine provides.
type FeatureSet string

const (
	// Full provides the form, paginate, schema, stylesheet, javascript and
	// section tags and the asset_url, img_url, handle and money filters.
	Full FeatureSet = "full"
	// Reduced provides the section and schema tags and the handle filter.
	Reduced FeatureSet = "reduced"
)

func (fs FeatureSet) Valid() bool {
	return fs == Full || fs == Reduced
}

const (
	DefaultExtension = "liquid"
	DefaultCacheSize = 64
)

// Config is the one-time setup of an Engine.
type Config struct {
	// PatternsDir is the base template/pattern directory.
	PatternsDir string `mapstructure:"patterns_dir"`
	// DataDir is the base data file directory. Defaults to PatternsDir.
	DataDir string `mapstructure:"data_dir"`
	// Extension is the file extension of section variant templates.
	Extension string `mapstructure:"extension"`
	// SectionDirs overrides the ordered list of directories searched for
	// section variants and their JSON sidecars.
	SectionDirs []string `mapstructure:"section_dirs"`

	FeatureSet FeatureSet `mapstructure:"feature_set"`
	// SectionMode defaults to tag.Wrapped for the full feature set and to
	// tag.Direct for the reduced one.
	SectionMode tag.SectionMode `mapstructure:"section_mode"`

	// AssetsPath prefixes values passed through asset_url.
	AssetsPath string `mapstructure:"assets_path"`
	// Currency is the symbol money prepends.
	Currency string `mapstructure:"currency"`

	// CacheSize bounds the number of compiled templates kept in memory.
	// A negative size disables caching.
	CacheSize int `mapstructure:"cache_size"`

	// Compiler is the external stylesheet compiler behind the scss and sass
	// processors. Defaults to the sass CLI.
	Compiler compiler.Compiler `mapstructure:"-"`
	// TemplatingEngine is the underlying engine. Defaults to Liquid.
	TemplatingEngine templatingengine.TemplatingEngine `mapstructure:"-"`
	// NewID generates section ids. Defaults to tag.NewID.
	NewID func() string `mapstructure:"-"`
}

func (c *Config) validate() error {
	if c.PatternsDir == "" {
		return errors.New("patterns dir is required")
	}

	if c.DataDir == "" {
		c.DataDir = c.PatternsDir
	}

	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}

	if c.FeatureSet == "" {
		c.FeatureSet = Full
	}
	if !c.FeatureSet.Valid() {
		return fmt.Errorf("invalid feature set %q", c.FeatureSet)
	}

	if c.SectionMode == "" {
		c.SectionMode = tag.Wrapped
		if c.FeatureSet == Reduced {
			c.SectionMode = tag.Direct
		}
	}
	if !c.SectionMode.Valid() {
		return fmt.Errorf("invalid section mode %q", c.SectionMode)
	}

	if c.AssetsPath == "" {
		c.AssetsPath = filter.DefaultAssetsPath
	}

	if c.Currency == "" {
		c.Currency = filter.DefaultCurrency
	}

	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}

	if len(c.SectionDirs) == 0 {
		c.SectionDirs = c.sectionDirs()
	}

	return nil
}

// sectionDirs is the default search path for section variants and sidecars.
func (c *Config) sectionDirs() []string {
	dirs := []string{
		filepath.Join(c.PatternsDir, "sections"),
		c.PatternsDir,
	}
	if c.DataDir != c.PatternsDir {
		dirs = append(dirs,
			filepath.Join(c.DataDir, "sections"),
			c.DataDir,
		)
	}
	return dirs
}
