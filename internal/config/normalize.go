package config

import (
	"fmt"
	"os"
	"strings"
)

var (
	baseURLEnv        = []string{"LEARNING_PLATFORM_API_URL", "VITE_LEARNING_PLATFORM_API_URL"}
	categoriesPathEnv = []string{"CATEGORIES_ENDPOINT_PATH", "VITE_CATEGORIES_ENDPOINT_PATH"}
	tutorialsPathEnv  = []string{"TUTORIALS_ENDPOINT_PATH", "VITE_TUTORIALS_ENDPOINT_PATH"}
)

func (c *Config) applyEnv() {
	if value, ok := lookupEnv(baseURLEnv...); ok {
		c.API.BaseURL = value
	}
	if value, ok := lookupEnv(categoriesPathEnv...); ok {
		c.API.CategoriesPath = value
	}
	if value, ok := lookupEnv(tutorialsPathEnv...); ok {
		c.API.TutorialsPath = value
	}
}

func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	c.API.CategoriesPath = normalizeEndpointPath(c.API.CategoriesPath, defaultCategoriesPath)
	c.API.TutorialsPath = normalizeEndpointPath(c.API.TutorialsPath, defaultTutorialsPath)
	c.API.UserAgent = strings.TrimSpace(c.API.UserAgent)
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaultUserAgent
	}
}

func normalizeEndpointPath(value, fallback string) string {
	value = strings.Trim(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return "/" + value
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		expanded, err := expandPath(c.Logging.File)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
