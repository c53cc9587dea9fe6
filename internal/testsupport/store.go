package testsupport

import (
	"testing"

	"learningcenter/internal/config"
	"learningcenter/internal/logging"
	"learningcenter/internal/publishingapi"
	"learningcenter/internal/store"
)

// MustOpenStore builds a store wired to the API described by cfg and waits
// for in-flight actions on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	logger := logging.NewNop()
	api, err := publishingapi.NewFromConfig(cfg, logger)
	if err != nil {
		t.Fatalf("publishingapi.NewFromConfig: %v", err)
	}
	st := store.New(api, store.WithLogger(logger))
	t.Cleanup(st.Wait)
	return st
}
