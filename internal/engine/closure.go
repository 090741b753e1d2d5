package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// closureEngine posts a script to the Closure Compiler service. Any
// transport error, non-200 status or error-shaped body is a hard
// failure; there is no local fallback.
func closureEngine(endpoint string, client *http.Client) Engine {
	if client == nil {
		client = http.DefaultClient
	}
	return Engine{
		Name:  "closure",
		Types: []string{"js"},
		Run: func(ctx context.Context, _, content string) (string, error) {
			form := url.Values{
				"js_code":           {content},
				"compilation_level": {"SIMPLE_OPTIMIZATIONS"},
				"output_format":     {"text"},
				"output_info":       {"compiled_code"},
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
				strings.NewReader(form.Encode()))
			if err != nil {
				return "", err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := client.Do(req)
			if err != nil {
				return "", fmt.Errorf("closure: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return "", fmt.Errorf("closure: read response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return "", fmt.Errorf("closure: service returned %s", resp.Status)
			}
			out := string(body)
			if strings.HasPrefix(strings.TrimSpace(out), "Error(") {
				return "", fmt.Errorf("closure: %s", strings.TrimSpace(out))
			}
			if out == "" {
				return "", fmt.Errorf("closure: empty response")
			}
			return out, nil
		},
	}
}
