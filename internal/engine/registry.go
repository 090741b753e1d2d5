package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// RunFunc applies one transform to content and returns the new content.
// ext is the task's content type tag; engines that shell out use it to
// tell the external tool what it is compressing.
type RunFunc func(ctx context.Context, ext, content string) (string, error)

// Engine is one registered transform. An empty Types slice means the
// engine accepts any content type.
type Engine struct {
	Name  string
	Types []string
	Run   RunFunc
}

func (e Engine) accepts(ext string) bool {
	if len(e.Types) == 0 {
		return true
	}
	for _, t := range e.Types {
		if t == ext {
			return true
		}
	}
	return false
}

var (
	ErrUnknownEngine = errors.New("unknown engine")
	ErrTypeMismatch  = errors.New("content type not accepted")
)

// Registry maps engine names to capability-checked transforms. It is
// built once at startup and treated as immutable afterwards.
type Registry struct {
	m map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{m: map[string]Engine{}}
}

func (r *Registry) Register(e Engine) {
	r.m[e.Name] = e
}

// Lookup resolves a transform for the given content type. Unknown names
// and type mismatches come back as distinct sentinel-wrapped errors so
// callers can tell "no such engine" from "wrong kind of content".
func (r *Registry) Lookup(name, ext string) (RunFunc, error) {
	e, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	if !e.accepts(ext) {
		return nil, fmt.Errorf("%w: engine %q does not take %q", ErrTypeMismatch, name, ext)
	}
	return e.Run, nil
}

// Names lists the engines available for a content type, sorted. The CLI
// layer uses this to validate a requested pipeline before dispatch.
func (r *Registry) Names(ext string) []string {
	var out []string
	for name, e := range r.m {
		if e.accepts(ext) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
