package task

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"filerelay/internal/logging"
	"filerelay/internal/mapping"
	"filerelay/internal/notify"
	"filerelay/internal/remote"
)

var placeholderPattern = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_]*)`)

// Dependencies carries the external collaborators actions are bound to.
type Dependencies struct {
	Store    remote.Client
	Notifier notify.Service
}

// Resolver turns a folder's declarative task maps into executable actions.
type Resolver struct {
	deps   Dependencies
	logger *slog.Logger
}

// NewResolver constructs a resolver.
func NewResolver(deps Dependencies, logger *slog.Logger) *Resolver {
	return &Resolver{deps: deps, logger: logging.NewComponentLogger(logger, "task-resolver")}
}

// Resolve builds the folder's action chain in ascending task order, ties
// broken by input order. A task that fails to resolve is logged and skipped;
// it never fails the folder.
func (r *Resolver) Resolve(folder *mapping.FolderMap) []Action {
	maps := make([]mapping.TaskMap, len(folder.Tasks))
	copy(maps, folder.Tasks)
	sort.SliceStable(maps, func(i, j int) bool { return maps[i].Order < maps[j].Order })

	actions := make([]Action, 0, len(maps))
	for _, tm := range maps {
		action, err := r.resolveOne(tm, folder)
		if err != nil {
			r.logger.Warn("task resolution failed, skipping task",
				logging.String(logging.FieldFolder, folder.Name),
				logging.String(logging.FieldTask, tm.Name),
				logging.Error(err),
			)
			continue
		}
		actions = append(actions, action)
	}
	return actions
}

func (r *Resolver) resolveOne(tm mapping.TaskMap, folder *mapping.FolderMap) (Action, error) {
	name := ResolveName(tm.Name, folder)
	base := folderAction{name: name, folder: folder}

	switch Kind(strings.ToLower(strings.TrimSpace(tm.Type))) {
	case KindTransfer:
		base.kind = KindTransfer
		return &transferAction{folderAction: base, store: r.deps.Store}, nil
	case KindVerify:
		base.kind = KindVerify
		return &verifyAction{folderAction: base, store: r.deps.Store}, nil
	case KindRelocate:
		base.kind = KindRelocate
		return &relocateAction{folderAction: base}, nil
	case KindDelete:
		base.kind = KindDelete
		return &deleteAction{folderAction: base}, nil
	case KindNotify:
		base.kind = KindNotify
		return &notifyAction{folderAction: base, notifier: r.deps.Notifier}, nil
	default:
		return nil, fmt.Errorf("unknown task type %q", tm.Type)
	}
}

// ResolveName substitutes @attribute placeholders in a task name template
// with the owning folder's attribute values. Unknown or empty attributes
// substitute as the empty string.
func ResolveName(template string, folder *mapping.FolderMap) string {
	resolved := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		value, _ := folder.Attribute(match[1:])
		return value
	})
	return strings.TrimSpace(resolved)
}
