package task

import (
	"context"
	"fmt"

	"filerelay/internal/notify"
)

// notifyAction sends the accumulated chain report to the folder's
// notification address. It only runs when every prior step succeeded.
type notifyAction struct {
	folderAction
	notifier notify.Service
}

func (a *notifyAction) Execute(ctx context.Context, report *Report) Result {
	if a.folder.NotifyAddress == "" {
		return succeed("no notification address configured for %s", a.folder.Name)
	}
	subject := fmt.Sprintf("filerelay: %s completed", a.folder.Name)
	if err := a.notifier.Send(ctx, a.folder.NotifyAddress, subject, report.HTML()); err != nil {
		return fail("send notification to %s: %v", a.folder.NotifyAddress, err)
	}
	return succeed("notified %s with %d step message(s)", a.folder.NotifyAddress, report.Len())
}
