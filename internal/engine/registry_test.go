package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func passthrough(_ context.Context, _, content string) (string, error) {
	return content, nil
}

func TestRegistry_UnknownEngine(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("nonexistent", "js")
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("want ErrUnknownEngine, got %v", err)
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Fatalf("error should name the engine: %v", err)
	}
}

func TestRegistry_TypeGating(t *testing.T) {
	r := NewRegistry()
	r.Register(Engine{Name: "jsonly", Types: []string{"js"}, Run: passthrough})

	if _, err := r.Lookup("jsonly", "js"); err != nil {
		t.Fatalf("js lookup: %v", err)
	}
	_, err := r.Lookup("jsonly", "css")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("want ErrTypeMismatch, got %v", err)
	}
}

func TestRegistry_AnyType(t *testing.T) {
	r := NewRegistry()
	r.Register(Engine{Name: "any", Run: passthrough})
	for _, ext := range []string{"js", "css"} {
		if _, err := r.Lookup("any", ext); err != nil {
			t.Fatalf("%s lookup: %v", ext, err)
		}
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(Engine{Name: "b", Types: []string{"js"}, Run: passthrough})
	r.Register(Engine{Name: "a", Types: []string{"js", "css"}, Run: passthrough})
	r.Register(Engine{Name: "c", Types: []string{"css"}, Run: passthrough})

	if got, want := r.Names("js"), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names(js) = %v, want %v", got, want)
	}
	if got, want := r.Names("css"), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names(css) = %v, want %v", got, want)
	}
}
