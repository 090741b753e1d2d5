package task

import (
	"strings"
	"time"
)

// Task is the unit of work handed to the pool and the unit of reply
// correlation. Content is replaced in place as the pipeline progresses;
// on a failed step it holds the output of the last successful step.
type Task struct {
	ID      string
	Engines []string
	Ext     string // content type tag: "js", "css"
	Content string

	Gzip     bool  // request compressed-size measurement after the pipeline
	GzipSize int64 // compressed byte count, set only on success

	Duration   time.Duration            // total pipeline wall time
	Individual map[string]time.Duration // wall time per attempted engine
}

// ParseEngines splits a comma-delimited engine list ("a, b, c") into
// ordered names, dropping empty entries.
func ParseEngines(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
