package task

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filerelay/internal/logging"
	"filerelay/internal/mapping"
)

type fakeStore struct {
	uploaded []string
	failOn   string
	listed   []string
	listErr  error
}

func (f *fakeStore) Upload(_ context.Context, remoteDir, localPath string) error {
	name := filepath.Base(localPath)
	if f.failOn != "" && name == f.failOn {
		return errors.New("upload rejected")
	}
	f.uploaded = append(f.uploaded, remoteDir+"/"+name)
	return nil
}

func (f *fakeStore) List(context.Context, string) ([]string, error) {
	return f.listed, f.listErr
}

type fakeNotifier struct {
	recipient string
	subject   string
	body      string
	err       error
	sends     int
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, body string) error {
	f.sends++
	f.recipient = recipient
	f.subject = subject
	f.body = body
	return f.err
}

func (f *fakeNotifier) Test(ctx context.Context, recipient string) error {
	return f.Send(ctx, recipient, "test", "test")
}

func tempFolder(t *testing.T, files ...string) *mapping.FolderMap {
	t.Helper()
	base := t.TempDir()
	folder := &mapping.FolderMap{
		Name:          "invoices",
		SourceDir:     filepath.Join(base, "src"),
		RemoteDir:     "inbound",
		SuccessDir:    filepath.Join(base, "done"),
		ErrorDir:      filepath.Join(base, "err"),
		NotifyAddress: "billing",
	}
	for _, dir := range []string{folder.SourceDir, folder.SuccessDir, folder.ErrorDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(folder.SourceDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return folder
}

func resolveKind(t *testing.T, folder *mapping.FolderMap, kind string, deps Dependencies) Action {
	t.Helper()
	resolver := NewResolver(deps, logging.NewNop())
	actions := resolver.Resolve(&mapping.FolderMap{
		Name:          folder.Name,
		SourceDir:     folder.SourceDir,
		RemoteDir:     folder.RemoteDir,
		SuccessDir:    folder.SuccessDir,
		ErrorDir:      folder.ErrorDir,
		NotifyAddress: folder.NotifyAddress,
		Tasks:         []mapping.TaskMap{{Order: 1, Name: kind + " step", Type: kind}},
	})
	if len(actions) != 1 {
		t.Fatalf("resolved %d actions for %s", len(actions), kind)
	}
	return actions[0]
}

func TestTransferUploadsAllFiles(t *testing.T) {
	folder := tempFolder(t, "a.txt", "b.txt")
	store := &fakeStore{}
	action := resolveKind(t, folder, "transfer", Dependencies{Store: store})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("transfer failed: %s", result.Message)
	}
	if len(store.uploaded) != 2 {
		t.Fatalf("uploaded = %v", store.uploaded)
	}
	if !strings.Contains(result.Message, "2 file(s)") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestTransferPartialFailureIsFailure(t *testing.T) {
	folder := tempFolder(t, "a.txt", "b.txt", "c.txt")
	store := &fakeStore{failOn: "b.txt"}
	action := resolveKind(t, folder, "transfer", Dependencies{Store: store})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if result.Success {
		t.Fatal("partial transfer must fail")
	}
	if !strings.Contains(result.Message, "1 of 3") || !strings.Contains(result.Message, "b.txt") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestTransferEmptySourceSucceeds(t *testing.T) {
	folder := tempFolder(t)
	action := resolveKind(t, folder, "transfer", Dependencies{Store: &fakeStore{}})
	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("empty transfer failed: %s", result.Message)
	}
}

func TestVerifyDetectsMissingRemoteFiles(t *testing.T) {
	folder := tempFolder(t, "a.txt", "b.txt")
	store := &fakeStore{listed: []string{"a.txt"}}
	action := resolveKind(t, folder, "verify", Dependencies{Store: store})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if result.Success {
		t.Fatal("verify should fail with missing remote file")
	}
	if !strings.Contains(result.Message, "b.txt") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestVerifyPassesAndDoesNotMutate(t *testing.T) {
	folder := tempFolder(t, "a.txt")
	store := &fakeStore{listed: []string{"a.txt", "extra.txt"}}
	action := resolveKind(t, folder, "verify", Dependencies{Store: store})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("verify failed: %s", result.Message)
	}
	if _, err := os.Stat(filepath.Join(folder.SourceDir, "a.txt")); err != nil {
		t.Fatalf("verify mutated source: %v", err)
	}
}

func TestRelocateMovesFilesToSuccessDir(t *testing.T) {
	folder := tempFolder(t, "a.txt")
	action := resolveKind(t, folder, "relocate", Dependencies{})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("relocate failed: %s", result.Message)
	}
	if _, err := os.Stat(filepath.Join(folder.SuccessDir, "a.txt")); err != nil {
		t.Fatalf("file not in success dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(folder.SourceDir, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("file still in source: %v", err)
	}
}

func TestDeleteRemovesLeftoverSourceFiles(t *testing.T) {
	folder := tempFolder(t, "stale.txt")
	action := resolveKind(t, folder, "delete", Dependencies{})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("delete failed: %s", result.Message)
	}
	if _, err := os.Stat(filepath.Join(folder.SourceDir, "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("file not removed: %v", err)
	}
}

func TestNotifySendsReportHTML(t *testing.T) {
	folder := tempFolder(t)
	notifier := &fakeNotifier{}
	action := resolveKind(t, folder, "notify", Dependencies{Notifier: notifier})

	report := NewReport(folder.Name)
	report.Append("upload", "transferred 2 file(s)", true)
	report.Append("verify", "verified 2 file(s)", true)

	result := action.Execute(context.Background(), report)
	if !result.Success {
		t.Fatalf("notify failed: %s", result.Message)
	}
	if notifier.recipient != "billing" {
		t.Fatalf("recipient = %q", notifier.recipient)
	}
	if !strings.Contains(notifier.body, "transferred 2 file(s)") || !strings.Contains(notifier.body, "verified 2 file(s)") {
		t.Fatalf("body missing step messages:\n%s", notifier.body)
	}
	uploadIdx := strings.Index(notifier.body, "upload")
	verifyIdx := strings.Index(notifier.body, "verify")
	if uploadIdx < 0 || verifyIdx < 0 || uploadIdx > verifyIdx {
		t.Fatalf("step order lost in body:\n%s", notifier.body)
	}
}

func TestNotifyWithoutAddressIsNoop(t *testing.T) {
	folder := tempFolder(t)
	folder.NotifyAddress = ""
	notifier := &fakeNotifier{}
	action := resolveKind(t, folder, "notify", Dependencies{Notifier: notifier})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if !result.Success {
		t.Fatalf("notify failed: %s", result.Message)
	}
	if notifier.sends != 0 {
		t.Fatalf("unexpected send count %d", notifier.sends)
	}
}

func TestNotifyDeliveryFailure(t *testing.T) {
	folder := tempFolder(t)
	notifier := &fakeNotifier{err: errors.New("endpoint down")}
	action := resolveKind(t, folder, "notify", Dependencies{Notifier: notifier})

	result := action.Execute(context.Background(), NewReport(folder.Name))
	if result.Success {
		t.Fatal("notify must fail when delivery fails")
	}
}

func TestQuarantineMovesSourceToErrorDir(t *testing.T) {
	folder := tempFolder(t, "bad.txt", "worse.txt")
	action := resolveKind(t, folder, "transfer", Dependencies{Store: &fakeStore{}})

	if err := action.Quarantine(context.Background()); err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	for _, name := range []string{"bad.txt", "worse.txt"} {
		if _, err := os.Stat(filepath.Join(folder.ErrorDir, name)); err != nil {
			t.Fatalf("%s not quarantined: %v", name, err)
		}
	}
}
