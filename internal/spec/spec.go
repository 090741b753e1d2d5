package spec

// TaskSpec is one entry in a job manifest. Content comes either inline
// or from a file path (resolved relative to the manifest).
type TaskSpec struct {
	ID      string `yaml:"id"`
	Engines string `yaml:"engines"` // comma-delimited, ordered: "jsmin, yui"
	Ext     string `yaml:"ext"`     // "js" | "css"
	File    string `yaml:"file"`
	Content string `yaml:"content"`
	Gzip    bool   `yaml:"gzip"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// Tasks are dispatched in manifest order; completion order is
	// whatever the pool produces.
	Tasks []TaskSpec `yaml:"tasks"`
}
