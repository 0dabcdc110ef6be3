// Package processor drives one folder mapping through its resolved task
// chain, enforcing fail-fast short-circuiting and quarantine-on-failure.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/services"
	"filerelay/internal/task"
)

// State is the folder processing state machine.
type State string

const (
	StateRunning   State = "running"
	StateFailed    State = "failed"
	StateCompleted State = "completed"
)

// Outcome summarizes one folder pass.
type Outcome struct {
	State  State
	Report *task.Report
}

// ActionResolver builds the executable chain for one folder.
type ActionResolver interface {
	Resolve(folder *mapping.FolderMap) []task.Action
}

// Processor executes folder task chains.
type Processor struct {
	resolver ActionResolver
	logger   *slog.Logger
	cooldown time.Duration
}

// New constructs a processor. cooldown is the pause applied after a failed
// folder to avoid tight error loops across consecutive failing folders.
func New(resolver ActionResolver, logger *slog.Logger, cooldown time.Duration) *Processor {
	return &Processor{
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, "folder-processor"),
		cooldown: cooldown,
	}
}

// Process runs one folder's chain. Task failures never escape: the chain is
// short-circuited, the folder's files are quarantined exactly once, and the
// outcome reports the failed state.
func (p *Processor) Process(ctx context.Context, folder *mapping.FolderMap) Outcome {
	folderCtx := services.WithFolder(ctx, folder.Name)
	logger := logging.WithContext(folderCtx, p.logger)

	report := task.NewReport(folder.Name)
	actions := p.resolver.Resolve(folder)
	if len(actions) == 0 {
		logger.Warn("folder has no executable tasks configured",
			logging.String(logging.FieldEventType, "empty_chain"),
		)
		return Outcome{State: StateCompleted, Report: report}
	}

	state := StateRunning
	for _, action := range actions {
		if state != StateRunning {
			break
		}
		if ctx.Err() != nil {
			return Outcome{State: state, Report: report}
		}

		taskCtx := services.WithTask(folderCtx, action.Name())
		taskLogger := logging.WithContext(taskCtx, p.logger)
		taskLogger.Info("task started",
			logging.String(logging.FieldEventType, "task_start"),
			logging.String("kind", string(action.Kind())),
		)

		start := time.Now()
		result := executeGuarded(taskCtx, action, report)
		report.Append(action.Name(), result.Message, result.Success)

		if !result.Success {
			taskLogger.Error("task failed, quarantining folder",
				logging.String(logging.FieldEventType, "task_failure"),
				logging.String("message", result.Message),
			)
			p.quarantine(ctx, action, taskLogger)
			state = StateFailed
			p.cooldownWait(ctx)
			break
		}

		taskLogger.Info("task completed",
			logging.String(logging.FieldEventType, "task_complete"),
			logging.String("message", result.Message),
			logging.Duration("task_duration", time.Since(start)),
		)
	}

	if state == StateRunning {
		state = StateCompleted
		logger.Info("folder completed",
			logging.String(logging.FieldEventType, "folder_complete"),
			logging.Int("tasks", report.Len()),
		)
	}
	return Outcome{State: state, Report: report}
}

// executeGuarded converts a panicking action into a failed result so a fault
// during execution is handled exactly like an unsuccessful one.
func executeGuarded(ctx context.Context, action task.Action, report *task.Report) (result task.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = task.Result{Success: false, Message: fmt.Sprintf("task fault: %v", r)}
		}
	}()
	return action.Execute(ctx, report)
}

// quarantine invokes the failing action's quarantine exactly once. A fault
// during quarantine is logged and swallowed; it never escapes folder
// processing.
func (p *Processor) quarantine(ctx context.Context, action task.Action, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("quarantine fault swallowed", logging.Any("panic", r))
		}
	}()
	if err := action.Quarantine(ctx); err != nil {
		logger.Error("quarantine failed",
			logging.String(logging.FieldEventType, "quarantine_failure"),
			logging.Error(err),
		)
		return
	}
	logger.Info("folder quarantined to error path",
		logging.String(logging.FieldEventType, "quarantine_complete"),
	)
}

func (p *Processor) cooldownWait(ctx context.Context) {
	if p.cooldown <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(p.cooldown):
	}
}
