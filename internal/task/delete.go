package task

import (
	"context"
	"os"
	"path/filepath"

	"filerelay/internal/fileutil"
)

// deleteAction removes files still remaining in the source folder after the
// earlier chain steps ran. It is an explicit cleanup step, never automatic.
type deleteAction struct {
	folderAction
}

func (a *deleteAction) Execute(ctx context.Context, _ *Report) Result {
	if err := ctx.Err(); err != nil {
		return fail("delete interrupted: %v", err)
	}
	names, err := fileutil.ListFiles(a.folder.SourceDir)
	if err != nil {
		return fail("list source folder: %v", err)
	}
	for i, name := range names {
		if err := os.Remove(filepath.Join(a.folder.SourceDir, name)); err != nil {
			return fail("removed %d of %d file(s), %s failed: %v", i, len(names), name, err)
		}
	}
	return succeed("removed %d file(s) from %s", len(names), a.folder.SourceDir)
}
