package testsupport

import (
	"path/filepath"
	"testing"

	"learningcenter/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config pointing at an unreachable local API with a
// per-test temp directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.API.BaseURL = "http://127.0.0.1:1/api/v1"
	cfgVal.API.UserAgent = "learningcenter/test"
	cfgVal.API.TimeoutSeconds = 5
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithServer points the config at a fake publishing server.
func WithServer(srv *PublishingServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = srv.BaseURL()
		b.cfg.API.CategoriesPath = "/" + CategoriesCollection
		b.cfg.API.TutorialsPath = "/" + TutorialsCollection
	}
}

// WithBaseURL overrides the API base URL on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = url
	}
}

// WithLogFile routes log output to a file inside the test's temp directory.
func WithLogFile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.File = filepath.Join(b.baseDir, "logs", name)
	}
}
