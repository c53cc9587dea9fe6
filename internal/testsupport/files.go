package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"learningcenter/internal/config"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteConfigFile encodes cfg as TOML into a fresh temp directory and returns
// the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	WriteFile(t, path, encoded)
	return path
}
