package config

import "tunefolder/internal/abcparse"

const (
	defaultConfigPath       = "~/.config/tunefolder/config.toml"
	defaultDataDir          = "~/.local/share/tunefolder"
	defaultAPIBind          = "127.0.0.1:7490"
	defaultBuildConcurrency = 4
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		Parser: Parser{
			PerTuneFields: append([]string{}, abcparse.DefaultPerTuneFields...),
		},
		Build: Build{
			Concurrency: defaultBuildConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
