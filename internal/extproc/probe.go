package extproc

import (
	"os"
	"os/exec"
	"path/filepath"
)

// LookupJava resolves the java binary once at startup. An explicit
// override wins; otherwise JAVA_HOME and then PATH are consulted. The
// result is an immutable capability consumed at engine registration,
// never re-probed per call.
func LookupJava(override string) (string, bool) {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override, true
		}
		return "", false
	}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		p := filepath.Join(home, "bin", "java")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	p, err := exec.LookPath("java")
	if err != nil {
		return "", false
	}
	return p, true
}
