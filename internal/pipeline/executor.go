// Package pipeline folds a task's content through its ordered engine
// list: per-step timing, rollback of the buffer on a failed step, and
// optional gzip sizing of the final result.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"crusher/internal/engine"
	"crusher/internal/task"
)

// Run applies t.Engines to t.Content left to right. The fold short-
// circuits on the first failure: the failing step's input is restored
// into t.Content, already-recorded step timings stay in t.Individual
// and t.Duration is set regardless of outcome. On success with t.Gzip
// set, the compressed size of the final content lands in t.GzipSize; a
// sizing failure becomes the task's error but leaves content, duration
// and individual timings intact.
func Run(ctx context.Context, reg *engine.Registry, t *task.Task) error {
	start := time.Now()
	if t.Individual == nil {
		t.Individual = make(map[string]time.Duration, len(t.Engines))
	}

	var failed error
	for _, name := range t.Engines {
		run, err := reg.Lookup(name, t.Ext)
		if err != nil {
			failed = err
			break
		}

		backup := t.Content
		stepStart := time.Now()
		out, err := run(ctx, t.Ext, t.Content)
		t.Individual[name] = time.Since(stepStart)
		if err != nil {
			t.Content = backup
			failed = fmt.Errorf("engine %s: %w", name, err)
			break
		}
		t.Content = out
	}
	t.Duration = time.Since(start)

	if failed != nil {
		return failed
	}
	if t.Gzip {
		n, err := GzipSize(t.Content)
		if err != nil {
			return fmt.Errorf("gzip size: %w", err)
		}
		t.GzipSize = n
	}
	return nil
}
