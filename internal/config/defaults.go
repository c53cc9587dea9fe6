package config

const (
	defaultConfigPath     = "~/.config/learningcenter/config.toml"
	defaultProjectConfig  = "learningcenter.toml"
	defaultBaseURL        = "http://localhost:3000/api/v1"
	defaultCategoriesPath = "/categories"
	defaultTutorialsPath  = "/tutorials"
	defaultUserAgent      = "learningcenter/dev"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			CategoriesPath: defaultCategoriesPath,
			TutorialsPath:  defaultTutorialsPath,
			UserAgent:      defaultUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
