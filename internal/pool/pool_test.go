package pool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crusher/internal/engine"
	"crusher/internal/task"
)

// gateRegistry has an "echo" engine and a "gate" engine that blocks
// until the gate channel is closed, signalling entry on started when
// given one.
func gateRegistry(gate chan struct{}, started chan struct{}) *engine.Registry {
	r := engine.NewRegistry()
	r.Register(engine.Engine{Name: "echo", Run: func(_ context.Context, _, c string) (string, error) {
		return c, nil
	}})
	r.Register(engine.Engine{Name: "gate", Run: func(_ context.Context, _, c string) (string, error) {
		if started != nil {
			started <- struct{}{}
		}
		<-gate
		return c, nil
	}})
	return r
}

func gateTask(id string) *task.Task {
	return &task.Task{ID: id, Engines: []string{"gate"}, Ext: "js", Content: "x"}
}

func collect(t *testing.T, ch <-chan *task.Task, n int) map[string]int {
	t.Helper()
	seen := map[string]int{}
	for i := 0; i < n; i++ {
		select {
		case tk := <-ch:
			seen[tk.ID]++
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for reply %d of %d", i+1, n)
		}
	}
	return seen
}

func TestSend_BeforeInitialize(t *testing.T) {
	p := New(gateRegistry(nil, nil), Config{Workers: 1})
	err := p.Send(gateTask("a"), func(error, *task.Task) {})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestRoundRobinRotation(t *testing.T) {
	gate := make(chan struct{})
	p := New(gateRegistry(gate, nil), Config{Workers: 3})
	p.Initialize(context.Background())
	defer p.Close()

	replies := make(chan *task.Task, 7)
	cb := func(_ error, tk *task.Task) { replies <- tk }

	// with no completions in between, the first W tasks land on W
	// distinct workers in strict rotation
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Send(gateTask(string(rune('a'+i))), cb))
		busy := 0
		for _, n := range p.Stats() {
			if n == 1 {
				busy++
			}
		}
		assert.Equal(t, i+1, busy, "after %d sends", i+1)
	}
	for i := 3; i < 7; i++ {
		require.NoError(t, p.Send(gateTask(string(rune('a'+i))), cb))
	}

	stats := p.Stats()
	total, min, max := 0, 7, 0
	for _, n := range stats {
		total += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	assert.Equal(t, 7, total)
	assert.Equal(t, 2, min, "floor(7/3)")
	assert.Equal(t, 3, max, "ceil(7/3)")

	close(gate)
	seen := collect(t, replies, 7)
	assert.Len(t, seen, 7)
}

func TestCorrelation_ExactlyOnce(t *testing.T) {
	p := New(gateRegistry(nil, nil), Config{Workers: 4})
	p.Initialize(context.Background())
	defer p.Close()

	const n = 40
	replies := make(chan *task.Task, n)
	for i := 0; i < n; i++ {
		tk := &task.Task{ID: string(rune('A' + i)), Engines: []string{"echo"}, Ext: "js", Content: "x"}
		require.NoError(t, p.Send(tk, func(err error, tk *task.Task) {
			require.NoError(t, err)
			replies <- tk
		}))
	}
	seen := collect(t, replies, n)
	assert.Len(t, seen, n)
	for id, count := range seen {
		assert.Equal(t, 1, count, "task %s", id)
	}
}

func TestSend_AssignsCollisionResistantID(t *testing.T) {
	p := New(gateRegistry(nil, nil), Config{Workers: 1})
	p.Initialize(context.Background())
	defer p.Close()

	done := make(chan *task.Task, 1)
	tk := &task.Task{Engines: []string{"echo"}, Ext: "js", Content: "x"}
	require.NoError(t, p.Send(tk, func(_ error, tk *task.Task) { done <- tk }))

	// the id is assigned synchronously during dispatch
	assert.NotEmpty(t, tk.ID)
	got := <-done
	assert.Equal(t, tk.ID, got.ID, "id round-trips unchanged")
}

func TestKill_RemovesFromRotation(t *testing.T) {
	p := New(gateRegistry(nil, nil), Config{Workers: 2})
	p.Initialize(context.Background())
	defer p.Close()

	require.Len(t, p.Stats(), 2)
	p.Kill("worker-1")
	stats := p.Stats()
	require.Len(t, stats, 1)
	assert.Contains(t, stats, "worker-2")

	// the surviving worker still serves traffic
	done := make(chan *task.Task, 1)
	tk := &task.Task{Engines: []string{"echo"}, Ext: "js", Content: "x"}
	require.NoError(t, p.Send(tk, func(_ error, tk *task.Task) { done <- tk }))
	collect(t, done, 1)

	p.Kill()
	assert.Empty(t, p.Stats())
	err := p.Send(gateTask("late"), func(error, *task.Task) {})
	assert.ErrorIs(t, err, ErrNoWorkers)
}

func TestKill_DropsInFlightCallbacks(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	p := New(gateRegistry(gate, started), Config{Workers: 1})
	p.Initialize(context.Background())
	defer p.Close()

	invoked := make(chan struct{}, 1)
	require.NoError(t, p.Send(gateTask("doomed"), func(error, *task.Task) {
		invoked <- struct{}{}
	}))
	<-started
	p.Kill()
	close(gate)

	select {
	case <-invoked:
		t.Fatal("callback for a killed worker's task must not fire")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSend_FullInboxIsAnError(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)
	p := New(gateRegistry(gate, started), Config{Workers: 1, Inbox: 1})
	p.Initialize(context.Background())
	defer p.Close()

	replies := make(chan *task.Task, 2)
	cb := func(_ error, tk *task.Task) { replies <- tk }

	require.NoError(t, p.Send(gateTask("running"), cb))
	<-started // worker is inside the engine, inbox is empty again
	require.NoError(t, p.Send(gateTask("queued"), cb))

	err := p.Send(gateTask("rejected"), cb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inbox full")

	close(gate)
	collect(t, replies, 2)
}

func TestCorrelationFailure_IsUnrecoverable(t *testing.T) {
	var fatal error
	p := New(gateRegistry(nil, nil), Config{
		Workers:   1,
		FatalHook: func(err error) { fatal = err },
	})

	// drive the correlation handler directly with a reply whose id was
	// never registered, the way a broken worker would
	w := &worker{id: "worker-1", done: make(chan struct{}), queue: map[string]Callback{}}
	rotation := []*worker{w}
	p.correlate(reply{w: w, task: &task.Task{ID: "ghost"}}, &rotation)

	require.ErrorIs(t, fatal, ErrUnrecoverable)
	assert.Contains(t, fatal.Error(), "ghost")
	assert.Empty(t, rotation, "the affected worker leaves the rotation")
	assert.True(t, w.killed)
}

func TestEndToEnd_JSMin(t *testing.T) {
	reg := engine.Builtin(engine.Options{})
	p := New(reg, Config{Workers: 1})
	p.Initialize(context.Background())
	defer p.Close()

	in := "function f(){ return 1; }"
	tk := &task.Task{ID: "a", Engines: []string{"jsmin"}, Ext: "js", Content: in, Gzip: true}
	done := make(chan error, 1)
	require.NoError(t, p.Send(tk, func(err error, _ *task.Task) { done <- err }))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply")
	}
	assert.Less(t, len(tk.Content), len(in))
	assert.Contains(t, tk.Individual, "jsmin")
	assert.GreaterOrEqual(t, tk.Duration, tk.Individual["jsmin"])
	assert.Positive(t, tk.GzipSize)
}
