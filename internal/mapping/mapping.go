// Package mapping holds the static folder mapping model built once from
// configuration at startup and read-only for the life of the process.
package mapping

import "filerelay/internal/config"

// AppTask is the root of one mapping run: a named, versioned, ordered set of
// folder mappings.
type AppTask struct {
	Name    string
	Version string
	Folders []FolderMap
}

// FolderMap describes one monitored folder and its ordered task chain.
type FolderMap struct {
	Name          string
	SourceDir     string
	RemoteDir     string
	SuccessDir    string
	ErrorDir      string
	NotifyAddress string
	Tasks         []TaskMap
}

// TaskMap is one declarative step of a folder's chain. Name may embed a
// single @attribute placeholder resolved against the owning folder.
type TaskMap struct {
	Order int
	Name  string
	Type  string
}

// FromConfig builds the mapping model from configuration. It returns nil when
// the configuration declares no folders; callers treat that as fatal.
func FromConfig(cfg *config.Config) *AppTask {
	if cfg == nil || len(cfg.Folders) == 0 {
		return nil
	}
	app := &AppTask{
		Name:    cfg.Name,
		Version: cfg.Version,
		Folders: make([]FolderMap, 0, len(cfg.Folders)),
	}
	for _, folder := range cfg.Folders {
		mapped := FolderMap{
			Name:          folder.Name,
			SourceDir:     folder.SourceDir,
			RemoteDir:     folder.RemoteDir,
			SuccessDir:    folder.SuccessDir,
			ErrorDir:      folder.ErrorDir,
			NotifyAddress: folder.NotifyAddress,
			Tasks:         make([]TaskMap, 0, len(folder.Tasks)),
		}
		for _, task := range folder.Tasks {
			mapped.Tasks = append(mapped.Tasks, TaskMap{
				Order: task.Order,
				Name:  task.Name,
				Type:  task.Type,
			})
		}
		app.Folders = append(app.Folders, mapped)
	}
	return app
}

// Attribute returns the string value of a named folder attribute for
// placeholder substitution. The attribute set is fixed; unknown names report
// false and substitute as the empty string.
func (f *FolderMap) Attribute(name string) (string, bool) {
	switch name {
	case "name":
		return f.Name, true
	case "source":
		return f.SourceDir, true
	case "remote":
		return f.RemoteDir, true
	case "success":
		return f.SuccessDir, true
	case "error":
		return f.ErrorDir, true
	case "notify":
		return f.NotifyAddress, true
	default:
		return "", false
	}
}
