package extproc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupJava_Override(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "java")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake java: %v", err)
	}

	if p, ok := LookupJava(fake); !ok || p != fake {
		t.Fatalf("override not honored: %q %v", p, ok)
	}
	if _, ok := LookupJava(filepath.Join(dir, "missing")); ok {
		t.Fatal("missing override should not resolve")
	}
}

func TestLookupJava_JavaHome(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	fake := filepath.Join(dir, "bin", "java")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JAVA_HOME", dir)

	if p, ok := LookupJava(""); !ok || p != fake {
		t.Fatalf("JAVA_HOME not honored: %q %v", p, ok)
	}
}
