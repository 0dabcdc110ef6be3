package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"filerelay/internal/config"
	"filerelay/internal/daemon"
	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/notify"
	"filerelay/internal/processor"
	"filerelay/internal/remote"
	"filerelay/internal/task"
	"filerelay/internal/workflow"
)

func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the filerelay daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd, *configFlag)
		},
	}
}

func runDaemonProcess(cmd *cobra.Command, configPath string) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logPath := filepath.Join(cfg.Daemon.LogDir, "filerelay.log")
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	plan := mapping.FromConfig(cfg)
	if plan == nil {
		logger.Warn("mapping produced no folder definitions, nothing to do")
		return fmt.Errorf("no folder mappings configured")
	}

	resolver := task.NewResolver(task.Dependencies{
		Store:    remote.NewClient(cfg),
		Notifier: notify.NewService(cfg),
	}, logger)
	proc := processor.New(resolver, logger, time.Duration(cfg.Daemon.FailureCooldown)*time.Second)
	manager := workflow.NewManager(cfg, plan, proc, logger)

	d, err := daemon.New(cfg, logger, manager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	select {
	case <-signalCtx.Done():
		logger.Info("filerelay daemon shutting down")
		d.Stop()
		return nil
	case <-d.Done():
		d.Stop()
		if lastErr := d.Status().Workflow.LastError; lastErr != "" {
			return fmt.Errorf("workflow terminated: %s", lastErr)
		}
		return fmt.Errorf("workflow terminated unexpectedly")
	}
}
