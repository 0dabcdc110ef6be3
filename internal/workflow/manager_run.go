package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/processor"
	"filerelay/internal/services"
)

const (
	backoffNotFound   = time.Minute
	backoffPermission = time.Minute
	backoffIO         = 30 * time.Second
	backoffDefault    = time.Minute
)

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	defer m.finish()
	// Only a truly unexpected fault reaches this guard; classified faults
	// are handled inside the loop. Log it as fatal and stop entirely.
	defer func() {
		if r := recover(); r != nil {
			m.setLastError(fmt.Errorf("workflow fault: %v", r))
			m.logger.Error("unrecoverable workflow fault, stopping service",
				logging.Any("panic", r),
				logging.String(logging.FieldEventType, "workflow_fatal"),
			)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("workflow loop cancelled")
			return
		default:
		}

		if err := m.runCycleFn(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				m.logger.Info("workflow loop cancelled")
				return
			}
			m.setLastError(err)
			backoff := classifyBackoff(err)
			m.logger.Warn("cycle failed, backing off before retry",
				logging.Error(err),
				logging.Duration("backoff", backoff),
				logging.String(logging.FieldEventType, "cycle_backoff"),
			)
			if !m.wait(ctx, backoff) {
				return
			}
			continue
		}

		if !m.wait(ctx, m.pollInterval) {
			return
		}
	}
}

// runCycle processes every folder mapping in order. A failure in one folder
// never halts the cycle.
func (m *Manager) runCycle(ctx context.Context) error {
	cycleCtx := services.WithCycleID(ctx, uuid.NewString())
	logger := logging.WithContext(cycleCtx, m.logger)
	logger.Debug("cycle started", logging.Int("folders", len(m.plan.Folders)))

	summary := CycleSummary{}
	for i := range m.plan.Folders {
		if err := cycleCtx.Err(); err != nil {
			return err
		}
		folder := &m.plan.Folders[i]
		outcome := m.processFolder(cycleCtx, folder)
		summary.Processed++
		switch outcome.State {
		case processor.StateCompleted:
			summary.Completed++
		case processor.StateFailed:
			summary.Failed++
		}
	}
	summary.Finished = time.Now().UTC()
	m.setLastCycle(summary)

	logger.Info("cycle completed",
		logging.String(logging.FieldEventType, "cycle_complete"),
		logging.Int("processed", summary.Processed),
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
	)
	return nil
}

// processFolder guards one folder pass. A fault escaping the processor is
// logged and does not stop processing of subsequent folders.
func (m *Manager) processFolder(ctx context.Context, folder *mapping.FolderMap) (outcome processor.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = processor.Outcome{State: processor.StateFailed}
			logging.WithContext(ctx, m.logger).Error("folder processing fault",
				logging.String(logging.FieldFolder, folder.Name),
				logging.Any("panic", r),
				logging.String(logging.FieldEventType, "folder_fault"),
			)
		}
	}()
	return m.proc.Process(ctx, folder)
}

// wait blocks for the given duration, returning false when cancelled.
func (m *Manager) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// classifyBackoff maps a cycle fault onto its retry backoff.
func classifyBackoff(err error) time.Duration {
	switch services.Classify(err) {
	case services.ErrNotFound:
		return backoffNotFound
	case services.ErrPermission:
		return backoffPermission
	case services.ErrIO:
		return backoffIO
	default:
		return backoffDefault
	}
}
