package task

import (
	"context"
	"path/filepath"

	"filerelay/internal/fileutil"
	"filerelay/internal/remote"
)

// transferAction uploads every file in the source folder to the remote
// destination. A partial upload is a failure.
type transferAction struct {
	folderAction
	store remote.Client
}

func (a *transferAction) Execute(ctx context.Context, _ *Report) Result {
	names, err := fileutil.ListFiles(a.folder.SourceDir)
	if err != nil {
		return fail("list source folder: %v", err)
	}
	if len(names) == 0 {
		return succeed("no files to transfer from %s", a.folder.SourceDir)
	}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return fail("transfer interrupted after %d of %d file(s): %v", i, len(names), err)
		}
		if err := a.store.Upload(ctx, a.folder.RemoteDir, filepath.Join(a.folder.SourceDir, name)); err != nil {
			return fail("transferred %d of %d file(s), %s failed: %v", i, len(names), name, err)
		}
	}
	return succeed("transferred %d file(s) to %s", len(names), a.folder.RemoteDir)
}
