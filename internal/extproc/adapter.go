// Package extproc runs an external executable as a content transform:
// argv assembly from an options map, stdin feed, stream buffering and
// exit classification.
package extproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// BuildArgs appends one "--key" flag per truthy option to the base argv.
// Boolean options contribute only the flag; anything else contributes
// the flag followed by its stringified value. Keys are emitted in sorted
// order so a given options map always yields the same argv.
func BuildArgs(args []string, opts map[string]any) []string {
	out := append([]string(nil), args...)
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := opts[k]
		if b, ok := v.(bool); ok {
			if b {
				out = append(out, "--"+k)
			}
			continue
		}
		if truthy(v) {
			out = append(out, "--"+k, fmt.Sprintf("%v", v))
		}
	}
	return out
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}

// Invoke spawns bin with the assembled argv, writes content to its stdin
// and buffers both output streams. Classification on exit, in order:
// any stderr bytes fail the call with that text (even on exit 0, some
// tools report real problems there without failing the exit code), then
// a non-zero exit code, then an empty stdout.
func Invoke(ctx context.Context, bin string, args []string, opts map[string]any, content string) (string, error) {
	argv := BuildArgs(args, opts)

	cmd := exec.CommandContext(ctx, bin, argv...)
	cmd.Stdin = strings.NewReader(content)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if stderr.Len() > 0 {
		return "", fmt.Errorf("%s: %s", bin, strings.TrimSpace(stderr.String()))
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", fmt.Errorf("%s exited with code %d", bin, exitErr.ExitCode())
		}
		return "", fmt.Errorf("%s: %w", bin, runErr)
	}
	if stdout.Len() == 0 {
		return "", fmt.Errorf("%s %s produced no output", bin, strings.Join(argv, " "))
	}
	return stdout.String(), nil
}
