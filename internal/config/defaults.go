package config

const (
	defaultDataDir          = "~/.local/share/marquee"
	defaultLogDir           = "~/.local/share/marquee/logs"
	defaultCatalogBaseURL   = "https://api.amctheatres.com/v2"
	defaultRequestTimeout   = 15
	defaultTitleThreshold   = 0.65
	defaultTheatreThreshold = 0.8
	defaultSendDelayMillis  = 1500
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			BaseURL:        defaultCatalogBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Matching: Matching{
			TitleThreshold:   defaultTitleThreshold,
			TheatreThreshold: defaultTheatreThreshold,
		},
		Notifications: Notifications{
			SendDelayMillis: defaultSendDelayMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
