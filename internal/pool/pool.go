package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"crusher/internal/engine"
	"crusher/internal/logging"
	"crusher/internal/task"
)

// Callback receives the reply for one dispatched task. It runs on the
// pool's control goroutine and is invoked exactly once per task; it
// must not call back into the pool synchronously.
type Callback func(err error, t *task.Task)

var (
	ErrNotReady  = errors.New("pool not initialized")
	ErrClosed    = errors.New("pool closed")
	ErrNoWorkers = errors.New("no workers in rotation")

	// ErrUnrecoverable tags a correlation failure: a reply arrived whose
	// task id has no registered callback on that worker. The worker's
	// queue invariants cannot be trusted past that point, so the worker
	// is killed and the fatal hook fires with this error.
	ErrUnrecoverable = errors.New("unrecoverable worker state")
)

// Config tunes the pool. Zero values get defaults.
type Config struct {
	Workers int // default: runtime.NumCPU()
	Inbox   int // per-worker inbound buffer, default 128

	// FatalHook is called on a correlation failure, after the affected
	// worker has been removed. Optional.
	FatalHook func(error)
}

type sendOp struct {
	task *task.Task
	cb   Callback
	errc chan error
}

type killOp struct {
	ids  []string // empty = all
	done chan struct{}
}

type statOp struct {
	resp chan map[string]int
}

// Pool dispatches tasks to workers by rotation and correlates replies
// back to caller callbacks. Rotation list and worker queues are mutated
// only inside the control loop.
type Pool struct {
	reg *engine.Registry
	cfg Config

	ready atomic.Bool

	sendCh  chan sendOp
	killCh  chan killOp
	statCh  chan statOp
	replies chan reply

	closeOnce sync.Once
	stopped   chan struct{}
}

func New(reg *engine.Registry, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Inbox <= 0 {
		cfg.Inbox = 128
	}
	return &Pool{
		reg:     reg,
		cfg:     cfg,
		sendCh:  make(chan sendOp),
		killCh:  make(chan killOp),
		statCh:  make(chan statOp),
		replies: make(chan reply, cfg.Workers),
		stopped: make(chan struct{}),
	}
}

// Initialize spawns the workers and the control loop. Safe to call more
// than once; only the first call does anything.
func (p *Pool) Initialize(ctx context.Context) {
	if !p.ready.CompareAndSwap(false, true) {
		return
	}
	rotation := make([]*worker, 0, p.cfg.Workers)
	for i := 0; i < p.cfg.Workers; i++ {
		w := &worker{
			id:    fmt.Sprintf("worker-%d", i+1),
			in:    make(chan *task.Task, p.cfg.Inbox),
			done:  make(chan struct{}),
			queue: map[string]Callback{},
		}
		rotation = append(rotation, w)
		go w.run(ctx, p.reg, p.replies)
	}
	workersAlive.Set(float64(len(rotation)))
	logging.L().Info("pool ready", "workers", len(rotation))
	go p.loop(rotation)
}

// Ready reports whether Initialize has run. Callers use it to keep
// Initialize idempotent at the call-site.
func (p *Pool) Ready() bool { return p.ready.Load() }

// Send assigns the task a collision-resistant id if it has none, routes
// it to the least-recently-used worker and registers the callback under
// the task id on that worker. It never waits for the reply; the
// callback fires later from the control loop. A full worker inbox is a
// dispatch error, not a stall.
func (p *Pool) Send(t *task.Task, cb Callback) error {
	if !p.ready.Load() {
		return ErrNotReady
	}
	op := sendOp{task: t, cb: cb, errc: make(chan error, 1)}
	select {
	case p.sendCh <- op:
		return <-op.errc
	case <-p.stopped:
		return ErrClosed
	}
}

// Kill removes the named workers (all, when called with no ids) from
// the rotation and stops them. Callbacks queued on a killed worker are
// dropped without being invoked.
func (p *Pool) Kill(ids ...string) {
	op := killOp{ids: ids, done: make(chan struct{})}
	select {
	case p.killCh <- op:
		<-op.done
	case <-p.stopped:
	}
}

// Stats reports in-flight task counts per worker id.
func (p *Pool) Stats() map[string]int {
	op := statOp{resp: make(chan map[string]int, 1)}
	select {
	case p.statCh <- op:
		return <-op.resp
	case <-p.stopped:
		return nil
	}
}

// Close kills every worker and stops the control loop.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		if p.ready.Load() {
			p.Kill()
		}
		close(p.stopped)
	})
}

/*──────── control loop ───────*/

func (p *Pool) loop(rotation []*worker) {
	for {
		select {
		case op := <-p.sendCh:
			op.errc <- dispatch(op, &rotation)
		case op := <-p.killCh:
			rotation = kill(op.ids, rotation)
			workersAlive.Set(float64(len(rotation)))
			close(op.done)
		case r := <-p.replies:
			p.correlate(r, &rotation)
		case op := <-p.statCh:
			stats := make(map[string]int, len(rotation))
			for _, w := range rotation {
				stats[w.id] = len(w.queue)
			}
			op.resp <- stats
		case <-p.stopped:
			return
		}
	}
}

// dispatch implements the rotation: pop the worker at the tail of the
// list, register the callback, transmit, push the worker to the head.
// Assignment is by rotation order alone, never by load; a worker can
// get a second task before replying to the first.
func dispatch(op sendOp, rotation *[]*worker) error {
	rot := *rotation
	if len(rot) == 0 {
		return ErrNoWorkers
	}
	if op.task.ID == "" {
		op.task.ID = uuid.NewString()
	}
	w := rot[len(rot)-1]
	w.queue[op.task.ID] = op.cb
	select {
	case w.in <- op.task:
	default:
		delete(w.queue, op.task.ID)
		return fmt.Errorf("worker %s: inbox full", w.id)
	}
	copy(rot[1:], rot[:len(rot)-1])
	rot[0] = w
	tasksDispatchedTotal.Inc()
	return nil
}

func kill(ids []string, rotation []*worker) []*worker {
	all := len(ids) == 0
	keep := rotation[:0]
	for _, w := range rotation {
		if all || contains(ids, w.id) {
			if n := len(w.queue); n > 0 {
				logging.L().Warn("killing worker with tasks in flight; their callbacks are dropped",
					"worker", w.id, "dropped", n)
			}
			w.killed = true
			close(w.done)
			continue
		}
		keep = append(keep, w)
	}
	return keep
}

// correlate delivers one worker reply to the callback registered for
// the task id. A missing entry means the pool's bookkeeping has already
// been violated; the worker is killed rather than reasoned about.
func (p *Pool) correlate(r reply, rotation *[]*worker) {
	if r.w.killed {
		logging.L().Debug("dropping reply from killed worker",
			"worker", r.w.id, "task", r.task.ID)
		return
	}
	cb, ok := r.w.queue[r.task.ID]
	if !ok {
		logging.L().Error("reply with no registered callback",
			"worker", r.w.id, "task", r.task.ID)
		*rotation = kill([]string{r.w.id}, *rotation)
		workersAlive.Set(float64(len(*rotation)))
		if p.cfg.FatalHook != nil {
			p.cfg.FatalHook(fmt.Errorf("%w: worker %s has no callback for task %s",
				ErrUnrecoverable, r.w.id, r.task.ID))
		}
		return
	}
	delete(r.w.queue, r.task.ID)

	status := "ok"
	if r.err != nil {
		status = "error"
	}
	tasksCompletedTotal.WithLabelValues(status).Inc()
	taskDurationSeconds.Observe(r.task.Duration.Seconds())
	cb(r.err, r.task)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
