package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Daemon contains polling loop timing settings. Intervals are in seconds.
type Daemon struct {
	PollInterval    int    `toml:"poll_interval"`
	FailureCooldown int    `toml:"failure_cooldown"`
	LogDir          string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Remote contains configuration for the remote file store.
type Remote struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Notify contains configuration for the notification endpoint.
type Notify struct {
	Endpoint       string `toml:"endpoint"`
	RequestTimeout int    `toml:"request_timeout"`
	RatePerMinute  int    `toml:"rate_per_minute"`
}

// Task declares one step of a folder's task chain. Name may embed a single
// @attribute placeholder resolved against the owning folder.
type Task struct {
	Order int    `toml:"order"`
	Name  string `toml:"name"`
	Type  string `toml:"type"`
}

// Folder declares one monitored folder mapping.
type Folder struct {
	Name          string `toml:"name"`
	SourceDir     string `toml:"source_dir"`
	RemoteDir     string `toml:"remote_dir"`
	SuccessDir    string `toml:"success_dir"`
	ErrorDir      string `toml:"error_dir"`
	NotifyAddress string `toml:"notify_address"`
	Tasks         []Task `toml:"task"`
}

// Config encapsulates all configuration values for filerelay.
type Config struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Daemon  Daemon   `toml:"daemon"`
	Logging Logging  `toml:"logging"`
	Remote  Remote   `toml:"remote"`
	Notify  Notify   `toml:"notify"`
	Folders []Folder `toml:"folder"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/filerelay/config.toml")
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filerelay.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample config to the given path, refusing
// to overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the log directory and every folder mapping's
// source, success, and error directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Daemon.LogDir}
	for _, folder := range c.Folders {
		dirs = append(dirs, folder.SourceDir, folder.SuccessDir, folder.ErrorDir)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
