package config

import (
	"log/slog"
	"os"
)

const (
	// ConfigFileEnv overrides the config file location.
	ConfigFileEnv = "SCHEMECORE_CONFIG"
	// DefaultConfigFile is the project-level config file name.
	DefaultConfigFile = "schemecore.yaml"
)

// Loader handles configuration loading with layered precedence.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader. A nil logger falls back to
// slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves configuration with layered precedence:
//  1. defaults
//  2. config file (SCHEMECORE_CONFIG, else ./schemecore.yaml if present)
//  3. environment variable overrides
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	path := os.Getenv(ConfigFileEnv)
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	if loaded, err := LoadFromFile(path); err == nil {
		l.logger.Debug("loaded config file", slog.String("path", path))
		config = loaded
	} else if explicit || !os.IsNotExist(err) {
		if explicit {
			return nil, err
		}
		l.logger.Warn("failed to load config file", slog.String("path", path), slog.String("error", err.Error()))
	}

	l.applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (l *Loader) applyEnvOverrides(config *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"SCHEMECORE_PERSISTENCE_DRIVER", &config.Persistence.Driver},
		{"SCHEMECORE_PERSISTENCE_PATH", &config.Persistence.Path},
		{"SCHEMECORE_PERSISTENCE_DSN", &config.Persistence.DSN},
		{"SCHEMECORE_ARCHIVE_DRIVER", &config.Archive.Driver},
		{"SCHEMECORE_ARCHIVE_FS_ROOT", &config.Archive.Root},
		{"SCHEMECORE_ARCHIVE_S3_BUCKET", &config.Archive.Bucket},
		{"SCHEMECORE_ARCHIVE_S3_REGION", &config.Archive.Region},
		{"SCHEMECORE_LOG_LEVEL", &config.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
			l.logger.Debug("applied env override", slog.String("var", o.env))
		}
	}
}

// SlogLevel maps the configured log level onto slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
