package task

import (
	"context"
	"strings"

	"filerelay/internal/fileutil"
	"filerelay/internal/remote"
)

// verifyAction confirms every local source file is present at the remote
// destination. It is a pure gate and mutates nothing.
type verifyAction struct {
	folderAction
	store remote.Client
}

func (a *verifyAction) Execute(ctx context.Context, _ *Report) Result {
	local, err := fileutil.ListFiles(a.folder.SourceDir)
	if err != nil {
		return fail("list source folder: %v", err)
	}
	if len(local) == 0 {
		return succeed("nothing to verify in %s", a.folder.SourceDir)
	}

	names, err := a.store.List(ctx, a.folder.RemoteDir)
	if err != nil {
		return fail("list remote destination %s: %v", a.folder.RemoteDir, err)
	}
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range local {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fail("%d file(s) missing at %s: %s", len(missing), a.folder.RemoteDir, strings.Join(missing, ", "))
	}
	return succeed("verified %d file(s) at %s", len(local), a.folder.RemoteDir)
}
