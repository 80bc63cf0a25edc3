// Package cli implements the equiplink command-line interface.
//
// The main commands are:
//   - merge: Collapse duplicate equipment definitions in a raw catalog export
//   - reorder: Rewrite a catalog to canonical key order without merging
//   - check: Report duplicate names and ids without writing anything
//   - place: Resolve linked equipment to world-space placement requests
//   - cache: Manage the merge result cache
//
// All commands support --verbose (-v) for debug-level logging via the
// charmbracelet/log library.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cedtools/equiplink/pkg/buildinfo"
	"github.com/cedtools/equiplink/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "equiplink"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration (built-in defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := LoadConfig(configPath())
	if err != nil {
		c.Logger.Warnf("ignoring config file: %v", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Equiplink links, places, and canonicalizes equipment catalogs",
		Long:         `Equiplink is a CLI tool for working with YAML equipment catalogs: it merges duplicate definitions, rewrites records into canonical key order, and resolves parent/child link relations into world-space placement requests.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.mergeCommand())
	root.AddCommand(c.reorderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the cache used by the merge command. Failures to locate a
// cache directory degrade to a no-op cache rather than failing the command.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir := c.Config.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warnf("caching disabled: %v", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/equiplink/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the config file path using XDG standard
// (~/.config/equiplink/config.toml).
func configPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
