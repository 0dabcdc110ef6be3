package task

import (
	"context"

	"filerelay/internal/fileutil"
)

// relocateAction moves the transferred source files into the folder's
// success directory.
type relocateAction struct {
	folderAction
}

func (a *relocateAction) Execute(ctx context.Context, _ *Report) Result {
	if err := ctx.Err(); err != nil {
		return fail("relocate interrupted: %v", err)
	}
	moved, err := fileutil.MoveDirFiles(a.folder.SourceDir, a.folder.SuccessDir)
	if err != nil {
		return fail("relocated %d file(s), then: %v", len(moved), err)
	}
	return succeed("relocated %d file(s) to %s", len(moved), a.folder.SuccessDir)
}
