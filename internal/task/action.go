// Package task resolves declarative task maps into executable actions and
// implements the five operation kinds a folder chain is built from.
package task

import (
	"context"
	"fmt"

	"filerelay/internal/fileutil"
	"filerelay/internal/mapping"
)

// Kind identifies the operation a task action performs. The set is closed;
// unknown type tokens are rejected at resolution time.
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindVerify   Kind = "verify"
	KindRelocate Kind = "relocate"
	KindDelete   Kind = "delete"
	KindNotify   Kind = "notify"
)

// Result is the uniform outcome of one action invocation.
type Result struct {
	Success bool
	Message string
}

func succeed(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Action is the resolved, executable form of a task map bound to its folder.
// Actions are built fresh per folder pass and never reused across cycles.
type Action interface {
	Name() string
	Kind() Kind
	// Execute runs the operation. The report carries every prior step's
	// message; only notify actions read it.
	Execute(ctx context.Context, report *Report) Result
	// Quarantine relocates the folder's source files into its error
	// directory. Invoked by the processor on failure, never by Execute.
	Quarantine(ctx context.Context) error
}

type folderAction struct {
	name   string
	kind   Kind
	folder *mapping.FolderMap
}

func (a *folderAction) Name() string { return a.name }

func (a *folderAction) Kind() Kind { return a.kind }

func (a *folderAction) Quarantine(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	moved, err := fileutil.MoveDirFiles(a.folder.SourceDir, a.folder.ErrorDir)
	if err != nil {
		return fmt.Errorf("quarantine after %d file(s): %w", len(moved), err)
	}
	return nil
}
