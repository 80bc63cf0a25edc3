package cli

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences read from the config file. All fields are
// optional; zero values fall back to built-in defaults.
type Config struct {
	// OutputSuffix is appended to the input filename stem when no explicit
	// output path is given (e.g. "catalog.yaml" -> "catalog_merged.yaml").
	OutputSuffix string `toml:"output_suffix"`

	// SampleLimit caps how many records the merge report prints.
	SampleLimit int `toml:"sample_limit"`

	// CacheDir overrides the XDG cache directory.
	CacheDir string `toml:"cache_dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		OutputSuffix: "_merged",
		SampleLimit:  10,
	}
}

// LoadConfig reads the config file at path. A missing or empty path yields
// the defaults; a present but malformed file is an error so a typo does not
// silently revert preferences.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.OutputSuffix == "" {
		cfg.OutputSuffix = "_merged"
	}
	if cfg.SampleLimit <= 0 {
		cfg.SampleLimit = 10
	}
	return cfg, nil
}
