// Package config loads minicc.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"minicc/internal/trace"
	"minicc/internal/vm"
)

// FileName is the configuration file looked up by Find.
const FileName = "minicc.toml"

// Config is the decoded configuration. Path and Root are empty for Default.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Module ModuleConfig `toml:"module"`
	Trace  TraceConfig  `toml:"trace"`
	Cache  CacheConfig  `toml:"cache"`
	Build  BuildConfig  `toml:"build"`
	VM     VMConfig     `toml:"vm"`
}

type ModuleConfig struct {
	Name string `toml:"name"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Mode   string `toml:"mode"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty: $XDG_CACHE_HOME/minicc
}

type BuildConfig struct {
	Jobs           int `toml:"jobs"` // 0: GOMAXPROCS
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type VMConfig struct {
	MaxSteps int `toml:"max_steps"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Module: ModuleConfig{Name: "main"},
		Trace:  TraceConfig{Level: "off", Mode: "stream", Format: "auto", Output: "-"},
		Cache:  CacheConfig{Enabled: true},
		Build:  BuildConfig{MaxDiagnostics: 100},
		VM:     VMConfig{MaxSteps: vm.DefaultMaxSteps},
	}
}

// Find walks up from startDir looking for minicc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadNearest loads the nearest minicc.toml above startDir, or Default when
// there is none.
func LoadNearest(startDir string) (Config, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err := Load(path)
	return cfg, true, err
}

// Validate checks value ranges. Errors name the file and the key.
func (c Config) Validate() error {
	where := c.Path
	if where == "" {
		where = FileName
	}
	if strings.TrimSpace(c.Module.Name) == "" {
		return fmt.Errorf("%s: [module].name must not be empty", where)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%s: [trace].level: %w", where, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%s: [trace].mode: %w", where, err)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("%s: [trace].format: %w", where, err)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("%s: [build].jobs must be >= 0, got %d", where, c.Build.Jobs)
	}
	if c.Build.MaxDiagnostics <= 0 || c.Build.MaxDiagnostics > 65535 {
		return fmt.Errorf("%s: [build].max_diagnostics must be in 1..65535, got %d", where, c.Build.MaxDiagnostics)
	}
	if c.VM.MaxSteps <= 0 {
		return fmt.Errorf("%s: [vm].max_steps must be positive, got %d", where, c.VM.MaxSteps)
	}
	return nil
}

// TraceConfig converts the [trace] table. Relative output paths resolve
// against Root.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	out := c.Trace.Output
	if out != "" && out != "-" && !filepath.IsAbs(out) && c.Root != "" {
		out = filepath.Join(c.Root, out)
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: out}, nil
}

// CacheDir is the cache directory, or "" when caching is off.
func (c Config) CacheDir() (string, error) {
	if !c.Cache.Enabled {
		return "", nil
	}
	if c.Cache.Dir != "" {
		if !filepath.IsAbs(c.Cache.Dir) && c.Root != "" {
			return filepath.Join(c.Root, c.Cache.Dir), nil
		}
		return c.Cache.Dir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "minicc"), nil
}

// Jobs is the effective batch parallelism.
func (c Config) Jobs() int {
	if c.Build.Jobs > 0 {
		return c.Build.Jobs
	}
	return runtime.GOMAXPROCS(0)
}
