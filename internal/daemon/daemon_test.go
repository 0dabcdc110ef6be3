package daemon

import (
	"context"
	"testing"
	"time"

	"filerelay/internal/config"
	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/processor"
	"filerelay/internal/task"
	"filerelay/internal/testsupport"
	"filerelay/internal/workflow"
)

func newTestDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	logger := logging.NewNop()
	resolver := task.NewResolver(task.Dependencies{}, logger)
	proc := processor.New(resolver, logger, 0)
	m := workflow.NewManager(cfg, mapping.FromConfig(cfg), proc, logger)
	d, err := New(cfg, logger, m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func TestStartFailsWithoutFolders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)
	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected startup failure with empty mapping")
	}
	if d.Status().Running {
		t.Fatal("daemon should not report running")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolder(t, "inbox"))
	d := newTestDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("daemon not running after Start")
	}

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	if d.Status().Running {
		t.Fatal("daemon still running after Stop")
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolder(t, "inbox"))
	first := newTestDaemon(t, cfg)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := newTestDaemon(t, cfg)
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance acquired the lock")
	}
}
