package task

import (
	"html"
	"strings"
)

// Report accumulates the messages of a folder's executed steps in execution
// order and renders them as the HTML body of the notification message.
type Report struct {
	folder  string
	entries []ReportEntry
}

// ReportEntry is one executed step's outcome.
type ReportEntry struct {
	Task    string
	Message string
	Success bool
}

// NewReport creates an empty report for the named folder.
func NewReport(folder string) *Report {
	return &Report{folder: folder}
}

// Append records one step's outcome.
func (r *Report) Append(task, message string, success bool) {
	r.entries = append(r.entries, ReportEntry{Task: task, Message: message, Success: success})
}

// Entries returns the recorded steps in execution order.
func (r *Report) Entries() []ReportEntry {
	return r.entries
}

// Len reports the number of recorded steps.
func (r *Report) Len() int { return len(r.entries) }

// HTML renders the report as a self-contained HTML fragment.
func (r *Report) HTML() string {
	var b strings.Builder
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(r.folder))
	b.WriteString("</h3>\n<ul>\n")
	for _, entry := range r.entries {
		b.WriteString("<li><strong>")
		b.WriteString(html.EscapeString(entry.Task))
		b.WriteString("</strong>: ")
		b.WriteString(html.EscapeString(entry.Message))
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
	return b.String()
}
