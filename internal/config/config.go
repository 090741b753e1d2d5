package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type Config struct {
	Workers int `koanf:"workers"` // 0 = logical CPU count

	JavaPath string `koanf:"java_path"` // override for the startup probe
	YUIJar   string `koanf:"yui_jar"`

	ClosureURL     string        `koanf:"closure_url"`
	ClosureTimeout time.Duration `koanf:"closure_timeout"`

	MetricsPort int    `koanf:"metrics_port"` // 0 = disabled
	Log         LogCfg `koanf:"log"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// Load merges YAML (if present) with env-vars
// (prefix `CRUSHER__`, delimiter `__`).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want v1)", sv)
	}

	_ = k.Load(env.Provider("CRUSHER__", "__", nil), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.ClosureURL == "" {
		c.ClosureURL = "https://closure-compiler.appspot.com/compile"
	}
	if c.ClosureTimeout == 0 {
		c.ClosureTimeout = 30 * time.Second
	}
}
