package engine

import (
	"context"
	"fmt"

	"crusher/internal/extproc"
)

// yuiEngine wraps the YUI Compressor jar behind the extproc adapter.
// When no java runtime was found at startup the engine stays registered
// but fails explicitly, so a requested "yui" step reports why it cannot
// run instead of passing content through untouched.
func yuiEngine(javaPath, jarPath string, opts map[string]any) Engine {
	return Engine{
		Name:  "yui",
		Types: []string{"js", "css"},
		Run: func(ctx context.Context, ext, content string) (string, error) {
			if javaPath == "" {
				return "", fmt.Errorf("yui: no java runtime available")
			}
			if jarPath == "" {
				return "", fmt.Errorf("yui: no compressor jar configured")
			}
			args := []string{"-jar", jarPath, "--type", ext}
			return extproc.Invoke(ctx, javaPath, args, opts, content)
		},
	}
}
