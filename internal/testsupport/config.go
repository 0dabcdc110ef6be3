// Package testsupport provides shared fixtures for filerelay tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"filerelay/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Daemon.LogDir = filepath.Join(base, "logs")
	cfg.Daemon.PollInterval = 3600
	cfg.Daemon.FailureCooldown = 0

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithFolder appends a folder mapping whose directories live under the test
// temp tree and already exist on disk.
func WithFolder(t testing.TB, name string, tasks ...config.Task) ConfigOption {
	return func(cfg *config.Config) {
		base := t.TempDir()
		folder := config.Folder{
			Name:       name,
			SourceDir:  filepath.Join(base, "src"),
			RemoteDir:  "inbound/" + name,
			SuccessDir: filepath.Join(base, "done"),
			ErrorDir:   filepath.Join(base, "err"),
			Tasks:      tasks,
		}
		for _, dir := range []string{folder.SourceDir, folder.SuccessDir, folder.ErrorDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("create test folder dir %s: %v", dir, err)
			}
		}
		cfg.Folders = append(cfg.Folders, folder)
	}
}

// WithRemote points the remote store at the given base URL.
func WithRemote(baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Remote.BaseURL = baseURL
	}
}

// WithNotifyEndpoint points notifications at the given URL.
func WithNotifyEndpoint(endpoint string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notify.Endpoint = endpoint
	}
}
