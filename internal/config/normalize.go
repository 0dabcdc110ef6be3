package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if c.Daemon.LogDir, err = expandPath(c.Daemon.LogDir); err != nil {
		return fmt.Errorf("daemon.log_dir: %w", err)
	}
	for i := range c.Folders {
		folder := &c.Folders[i]
		if folder.SourceDir, err = expandPath(folder.SourceDir); err != nil {
			return fmt.Errorf("folder %q source_dir: %w", folder.Name, err)
		}
		if folder.SuccessDir, err = expandPath(folder.SuccessDir); err != nil {
			return fmt.Errorf("folder %q success_dir: %w", folder.Name, err)
		}
		if folder.ErrorDir, err = expandPath(folder.ErrorDir); err != nil {
			return fmt.Errorf("folder %q error_dir: %w", folder.Name, err)
		}
		folder.Name = strings.TrimSpace(folder.Name)
		folder.RemoteDir = strings.TrimSpace(folder.RemoteDir)
		folder.NotifyAddress = strings.TrimSpace(folder.NotifyAddress)
	}
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	c.Notify.Endpoint = strings.TrimSpace(c.Notify.Endpoint)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
