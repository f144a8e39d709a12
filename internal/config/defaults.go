package config

const (
	defaultDataDir       = "~/.local/share/squadvault"
	defaultLogDir        = "~/.local/share/squadvault/logs"
	defaultExportDir     = "~/.local/share/squadvault/exports"
	defaultMinConfidence = "B"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Selection: Selection{
			MinConfidence: defaultMinConfidence,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
