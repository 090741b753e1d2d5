// Package pool owns the worker pool and dispatcher: rotation-based task
// assignment, per-worker callback queues and reply correlation by task
// id. All pool state is mutated by a single control goroutine; callers
// interact only through Send, Kill and the introspection calls.
package pool
