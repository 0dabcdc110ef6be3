package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDaemon() error {
	if c.Daemon.PollInterval <= 0 {
		return errors.New("daemon.poll_interval must be greater than zero")
	}
	if c.Daemon.FailureCooldown < 0 {
		return errors.New("daemon.failure_cooldown must not be negative")
	}
	if c.Daemon.LogDir == "" {
		return errors.New("daemon.log_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateFolders() error {
	seen := make(map[string]struct{}, len(c.Folders))
	for i := range c.Folders {
		folder := &c.Folders[i]
		label := folder.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if folder.Name == "" {
			return fmt.Errorf("folder %s: name must be set", label)
		}
		if _, dup := seen[folder.Name]; dup {
			return fmt.Errorf("folder %q configured more than once", folder.Name)
		}
		seen[folder.Name] = struct{}{}
		if folder.SourceDir == "" {
			return fmt.Errorf("folder %q: source_dir must be set", folder.Name)
		}
		if folder.SuccessDir == "" {
			return fmt.Errorf("folder %q: success_dir must be set", folder.Name)
		}
		if folder.ErrorDir == "" {
			return fmt.Errorf("folder %q: error_dir must be set", folder.Name)
		}
		if folder.SourceDir == folder.SuccessDir || folder.SourceDir == folder.ErrorDir {
			return fmt.Errorf("folder %q: success_dir and error_dir must differ from source_dir", folder.Name)
		}
	}
	return nil
}

func (c *Config) validateRemote() error {
	if !c.needsRemote() {
		return nil
	}
	if c.Remote.BaseURL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/filerelay/config.toml"
		}
		return fmt.Errorf("remote.base_url is required for transfer and verify tasks. Edit %s (create with 'filerelay config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
		return fmt.Errorf("remote.base_url must be an http(s) URL, got %q", c.Remote.BaseURL)
	}
	if c.Remote.RequestTimeout <= 0 {
		return errors.New("remote.request_timeout must be greater than zero")
	}
	return nil
}

func (c *Config) validateNotify() error {
	if c.Notify.Endpoint == "" {
		return nil
	}
	if !strings.HasPrefix(c.Notify.Endpoint, "http://") && !strings.HasPrefix(c.Notify.Endpoint, "https://") {
		return fmt.Errorf("notify.endpoint must be an http(s) URL, got %q", c.Notify.Endpoint)
	}
	if c.Notify.RequestTimeout <= 0 {
		return errors.New("notify.request_timeout must be greater than zero")
	}
	return nil
}

func (c *Config) needsRemote() bool {
	for _, folder := range c.Folders {
		for _, task := range folder.Tasks {
			switch strings.ToLower(strings.TrimSpace(task.Type)) {
			case "transfer", "verify":
				return true
			}
		}
	}
	return false
}
