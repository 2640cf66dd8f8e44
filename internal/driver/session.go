package driver

import (
	"fmt"

	"minicc/internal/config"
	"minicc/internal/trace"
)

// OptionsFromConfig maps a loaded configuration onto Options, opening the
// cache directory when caching is enabled.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	opts := Options{
		ModuleName:     cfg.Module.Name,
		MaxDiagnostics: cfg.Build.MaxDiagnostics,
		Jobs:           cfg.Jobs(),
		MaxSteps:       cfg.VM.MaxSteps,
		Memo:           NewUnitCache(16),
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return Options{}, fmt.Errorf("cache dir: %w", err)
	}
	if dir != "" {
		if opts.Cache, err = OpenDiskCache(dir); err != nil {
			return Options{}, fmt.Errorf("open cache: %w", err)
		}
	}
	return opts, nil
}

// TracerFromConfig builds the tracer described by the [trace] table.
func TracerFromConfig(cfg config.Config) (trace.Tracer, error) {
	tc, err := cfg.TraceConfig()
	if err != nil {
		return nil, err
	}
	return trace.New(tc)
}
