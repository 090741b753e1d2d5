package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"crusher/internal/spec"
)

const SupportedSchema = "v1"

// LoadJobSpec parses a job manifest, validates schema_version, and
// resolves each task's content file path relative to the manifest.
func LoadJobSpec(path string) (spec.File, error) {
	var job spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return job, err
	}
	if err := yaml.Unmarshal(raw, &job); err != nil {
		return job, err
	}
	if job.SchemaVersion == "" {
		job.SchemaVersion = SupportedSchema
	}
	if job.SchemaVersion != SupportedSchema {
		return job, fmt.Errorf("job schema_version %q not supported (want %q)", job.SchemaVersion, SupportedSchema)
	}
	dir := filepath.Dir(path)
	for i, t := range job.Tasks {
		if t.File != "" && !filepath.IsAbs(t.File) {
			job.Tasks[i].File = filepath.Join(dir, t.File)
		}
		if t.File == "" && t.Content == "" {
			return job, fmt.Errorf("task %d: needs either file or content", i)
		}
		if t.Engines == "" {
			return job, fmt.Errorf("task %d: no engines requested", i)
		}
	}
	return job, nil
}
