package config

const (
	defaultName                 = "filerelay"
	defaultVersion              = "1.0"
	defaultLogDir               = "~/.local/share/filerelay/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultPollInterval         = 300
	defaultFailureCooldown      = 5
	defaultRemoteTimeoutSeconds = 60
	defaultNotifyTimeoutSeconds = 10
	defaultNotifyRatePerMinute  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Name:    defaultName,
		Version: defaultVersion,
		Daemon: Daemon{
			PollInterval:    defaultPollInterval,
			FailureCooldown: defaultFailureCooldown,
			LogDir:          defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Remote: Remote{
			RequestTimeout: defaultRemoteTimeoutSeconds,
		},
		Notify: Notify{
			RequestTimeout: defaultNotifyTimeoutSeconds,
			RatePerMinute:  defaultNotifyRatePerMinute,
		},
	}
}
