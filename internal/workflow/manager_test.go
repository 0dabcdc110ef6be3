package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"filerelay/internal/config"
	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/processor"
	"filerelay/internal/services"
)

type recordingProcessor struct {
	processed []string
	outcomes  map[string]processor.Outcome
	panicOn   string
}

func (p *recordingProcessor) Process(_ context.Context, folder *mapping.FolderMap) processor.Outcome {
	p.processed = append(p.processed, folder.Name)
	if folder.Name == p.panicOn {
		panic("folder exploded")
	}
	if outcome, ok := p.outcomes[folder.Name]; ok {
		return outcome
	}
	return processor.Outcome{State: processor.StateCompleted}
}

func testPlan(names ...string) *mapping.AppTask {
	plan := &mapping.AppTask{Name: "filerelay", Version: "1.0"}
	for _, name := range names {
		plan.Folders = append(plan.Folders, mapping.FolderMap{Name: name})
	}
	return plan
}

func newTestManager(plan *mapping.AppTask, proc FolderProcessor) *Manager {
	cfg := config.Default()
	cfg.Daemon.PollInterval = 3600
	return NewManager(&cfg, plan, proc, logging.NewNop())
}

func TestStartRejectsEmptyMapping(t *testing.T) {
	for _, plan := range []*mapping.AppTask{nil, testPlan()} {
		m := newTestManager(plan, &recordingProcessor{})
		if err := m.Start(context.Background()); !errors.Is(err, ErrNoFolders) {
			t.Fatalf("Start = %v, want ErrNoFolders", err)
		}
		if m.Status().Running {
			t.Fatal("manager should not be running")
		}
	}
}

func TestRunCycleProcessesFoldersInOrder(t *testing.T) {
	proc := &recordingProcessor{
		outcomes: map[string]processor.Outcome{
			"b": {State: processor.StateFailed},
		},
	}
	m := newTestManager(testPlan("a", "b", "c"), proc)

	if err := m.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if len(proc.processed) != 3 || proc.processed[0] != "a" || proc.processed[2] != "c" {
		t.Fatalf("processed = %v", proc.processed)
	}
	summary := m.Status().LastCycle
	if summary.Processed != 3 || summary.Completed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunCycleContinuesAfterFolderFault(t *testing.T) {
	proc := &recordingProcessor{panicOn: "a"}
	m := newTestManager(testPlan("a", "b"), proc)

	if err := m.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if len(proc.processed) != 2 {
		t.Fatalf("fault in folder a stopped the cycle: %v", proc.processed)
	}
	if m.Status().LastCycle.Failed != 1 {
		t.Fatalf("summary = %+v", m.Status().LastCycle)
	}
}

func TestRunCycleStopsOnCancellation(t *testing.T) {
	proc := &recordingProcessor{}
	m := newTestManager(testPlan("a", "b"), proc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.runCycle(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("runCycle = %v, want context.Canceled", err)
	}
	if len(proc.processed) != 0 {
		t.Fatalf("processed after cancellation: %v", proc.processed)
	}
}

func TestClassifyBackoff(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want time.Duration
	}{
		{"not found", services.Wrap(services.ErrNotFound, "cycle", "walk", "", nil), time.Minute},
		{"permission", services.Wrap(services.ErrPermission, "cycle", "walk", "", nil), time.Minute},
		{"io", services.Wrap(services.ErrIO, "remote", "upload", "", nil), 30 * time.Second},
		{"other", errors.New("mystery"), time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyBackoff(tc.err); got != tc.want {
				t.Fatalf("classifyBackoff = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBackoffWaitPreservesCancellation(t *testing.T) {
	m := newTestManager(testPlan("a"), &recordingProcessor{})
	cycles := 0
	m.runCycleFn = func(ctx context.Context) error {
		cycles++
		return services.Wrap(services.ErrIO, "remote", "upload", "store down", nil)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The loop is now in its 30 second I/O backoff; Stop must interrupt it.
	time.Sleep(20 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked during backoff wait")
	}
	if cycles != 1 {
		t.Fatalf("cycles = %d, want 1 before backoff", cycles)
	}
	if m.Status().LastError == "" {
		t.Fatal("classified fault not recorded")
	}
}

func TestCancellationDuringIntervalWait(t *testing.T) {
	proc := &recordingProcessor{}
	m := newTestManager(testPlan("a"), proc)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked during interval wait")
	}
	if m.Status().Running {
		t.Fatal("manager still running after Stop")
	}
	if len(proc.processed) != 1 {
		t.Fatalf("processed = %v, want one pass before the wait", proc.processed)
	}
}

func TestFatalLoopFaultStopsManager(t *testing.T) {
	m := newTestManager(testPlan("a"), &recordingProcessor{})
	m.runCycleFn = func(ctx context.Context) error {
		panic("catastrophic cycle fault")
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not terminate after fatal fault")
	}

	status := m.Status()
	if status.Running {
		t.Fatal("manager still reports running after fatal fault")
	}
	if !strings.Contains(status.LastError, "catastrophic cycle fault") {
		t.Fatalf("LastError = %q, want the fault message", status.LastError)
	}

	// The loop is already down; Stop must return without blocking.
	m.Stop()
}

func TestStartTwiceFails(t *testing.T) {
	m := newTestManager(testPlan("a"), &recordingProcessor{})
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer m.Stop()
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail")
	}
}
