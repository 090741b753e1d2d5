package engine

import (
	"context"
	"net/http"
)

// Options carries the startup capabilities the built-in engines depend
// on: the resolved java binary (empty when the probe failed), the YUI
// Compressor jar and the Closure service endpoint.
type Options struct {
	JavaPath   string
	YUIJar     string
	YUIOpts    map[string]any
	ClosureURL string
	HTTPClient *http.Client
}

// Builtin assembles the process-wide registry. Called once at startup;
// the returned registry is immutable configuration from then on.
func Builtin(o Options) *Registry {
	r := NewRegistry()
	r.Register(Engine{
		Name:  "jsmin",
		Types: []string{"js"},
		Run: func(_ context.Context, _, content string) (string, error) {
			return minifyJS(content), nil
		},
	})
	r.Register(Engine{
		Name:  "cssmin",
		Types: []string{"css"},
		Run: func(_ context.Context, _, content string) (string, error) {
			return minifyCSS(content), nil
		},
	})
	opts := o.YUIOpts
	if opts == nil {
		opts = map[string]any{"charset": "utf8"}
	}
	r.Register(yuiEngine(o.JavaPath, o.YUIJar, opts))
	r.Register(closureEngine(o.ClosureURL, o.HTTPClient))
	return r
}
