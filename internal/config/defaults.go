package config

const (
	defaultConfigPath     = "~/.config/unify/config.toml"
	projectConfigName     = "unify.toml"
	defaultDataDir        = "~/.local/share/unify"
	defaultLogDir         = "~/.local/share/unify/logs"
	defaultSeparator      = "-"
	defaultFoldDiacritics = true
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// IndexFileName is the SQLite database inside the data directory.
	IndexFileName = "index.db"
	// LockFileName is the advisory lock file inside the data directory.
	LockFileName = "index.lock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Normalize: Normalize{
			FoldDiacritics: defaultFoldDiacritics,
			Separator:      defaultSeparator,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
