package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"filerelay/internal/config"
	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/processor"
)

// ErrNoFolders is returned by Start when the mapping yields no actionable
// work. It is a fatal startup condition, not a retryable one.
var ErrNoFolders = errors.New("mapping contains no folder definitions")

// FolderProcessor is the contract the manager needs from the folder processor.
type FolderProcessor interface {
	Process(ctx context.Context, folder *mapping.FolderMap) processor.Outcome
}

// CycleSummary aggregates the results of one full pass over all folders.
type CycleSummary struct {
	Processed int
	Completed int
	Failed    int
	Finished  time.Time
}

// StatusSummary reports manager state for the daemon and CLI surfaces.
type StatusSummary struct {
	Running   bool
	Folders   int
	LastCycle CycleSummary
	LastError string
}

// Manager owns the polling loop. Folders, and tasks within a folder, are
// processed strictly sequentially; the only suspension points are the
// interval wait and classified backoff waits, all cancellable.
type Manager struct {
	cfg    *config.Config
	plan   *mapping.AppTask
	proc   FolderProcessor
	logger *slog.Logger

	pollInterval time.Duration

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	done      chan struct{}
	lastCycle CycleSummary
	lastErr   error

	// runCycleFn is the cycle body; indirected for fault-injection in tests.
	runCycleFn func(ctx context.Context) error
}

// NewManager constructs a workflow manager over the startup mapping.
func NewManager(cfg *config.Config, plan *mapping.AppTask, proc FolderProcessor, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:          cfg,
		plan:         plan,
		proc:         proc,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: time.Duration(cfg.Daemon.PollInterval) * time.Second,
	}
	m.runCycleFn = m.runCycle
	return m
}

// Start begins background processing. A nil mapping or an empty folder list
// is fatal: the loop is never entered.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if m.plan == nil || len(m.plan.Folders) == 0 {
		m.mu.Unlock()
		return ErrNoFolders
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.done = make(chan struct{})
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("workflow started",
		logging.String("mapping", m.plan.Name),
		logging.String("version", m.plan.Version),
		logging.Int("folders", len(m.plan.Folders)),
		logging.Duration("poll_interval", m.pollInterval),
	)
	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("workflow stopped")
}

// Done returns a channel closed once the background loop has exited, whether
// through Stop or an unrecoverable fault. Callers waiting on external signals
// should also select on this so a dead loop does not leave the process idling.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// finish marks the manager stopped after the loop exits. Without this a fault
// escaping the loop guard would kill the goroutine but leave the manager
// reporting itself running with no way to stop it.
func (m *Manager) finish() {
	m.mu.Lock()
	m.running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	done := m.done
	m.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// Status returns a snapshot of the manager state.
func (m *Manager) Status() StatusSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	summary := StatusSummary{
		Running:   m.running,
		LastCycle: m.lastCycle,
	}
	if m.plan != nil {
		summary.Folders = len(m.plan.Folders)
	}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	return summary
}

func (m *Manager) setLastCycle(summary CycleSummary) {
	m.mu.Lock()
	m.lastCycle = summary
	m.mu.Unlock()
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
