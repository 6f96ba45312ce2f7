// Package genconfig loads the optional .lalrgen.toml ambient CLI
// configuration (SPEC_FULL.md's AMBIENT STACK "Configuration" section):
// default output directory, license header text, a saved --expect
// baseline per grammar file, color on/off, and a cache directory.
// cmd/lalrgen applies only the cache directory (which --cache-dir
// overrides); it does not use the other fields. Grounded on BurntSushi/toml being the teacher's only
// TOML-consuming dependency (go.mod), with no existing teacher config
// loader to imitate the shape of — dekarrin-tunaq reads its own
// configuration from flags and environment variables only — so the
// struct shape here is original, sized to what SPEC_FULL.md's ambient
// config section actually names.
package genconfig

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the parsed contents of a .lalrgen.toml file.
type Config struct {
	OutputDir     string         `toml:"output_dir"`
	LicenseHeader string         `toml:"license_header"`
	Color         *bool          `toml:"color"`
	Expect        map[string]int `toml:"expect"` // grammar file path -> saved --expect baseline
	CacheDir      string         `toml:"cache_dir"`
}

// Load reads and parses path. A missing file is not an error: it returns
// the zero Config so the CLI can fall back entirely to flag defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{Expect: map[string]int{}}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.Expect == nil {
		cfg.Expect = map[string]int{}
	}
	return cfg, nil
}

// ExpectFor returns the saved --expect baseline for grammarPath, and
// whether one was recorded.
func (c *Config) ExpectFor(grammarPath string) (int, bool) {
	if c == nil {
		return 0, false
	}
	n, ok := c.Expect[grammarPath]
	return n, ok
}

// ColorEnabled reports whether colorized diagnostics should be used,
// defaulting to true when the file doesn't mention it.
func (c *Config) ColorEnabled() bool {
	if c == nil || c.Color == nil {
		return true
	}
	return *c.Color
}
