package config

const (
	defaultLogDir          = "~/.local/share/dupescan/logs"
	defaultAPIBind         = "127.0.0.1:7319"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultThreshold       = 1.0
	defaultCacheMaxEntries = 0
)

var defaultImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".heic",
}

var defaultVideoExtensions = []string{
	".mkv", ".mp4", ".avi", ".mov", ".webm", ".m4v", ".mpg", ".mpeg",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Analysis: Analysis{
			DefaultThreshold: defaultThreshold,
			ImageExtensions:  append([]string{}, defaultImageExtensions...),
			VideoExtensions:  append([]string{}, defaultVideoExtensions...),
		},
		Cache: Cache{
			MaxEntries: defaultCacheMaxEntries,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
