package pool

import (
	"context"

	"crusher/internal/engine"
	"crusher/internal/pipeline"
	"crusher/internal/task"
)

// worker is one execution slot: a goroutine draining its inbound
// channel plus the callback queue for its in-flight tasks. The queue is
// owned by the pool's control goroutine, never touched here.
type worker struct {
	id    string
	in    chan *task.Task
	done  chan struct{}
	queue map[string]Callback

	// set by the control goroutine when the worker is killed; replies
	// from a killed worker are dropped instead of correlated.
	killed bool
}

type reply struct {
	w    *worker
	err  error
	task *task.Task
}

// run executes one inbound task at a time. A CPU-bound pipeline step
// monopolizes the worker until it finishes; queued tasks wait in the
// inbound channel.
func (w *worker) run(ctx context.Context, reg *engine.Registry, replies chan<- reply) {
	for {
		select {
		case t := <-w.in:
			err := pipeline.Run(ctx, reg, t)
			select {
			case replies <- reply{w: w, err: err, task: t}:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}
