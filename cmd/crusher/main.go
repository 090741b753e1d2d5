package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"crusher/internal/config"
	"crusher/internal/engine"
	"crusher/internal/extproc"
	"crusher/internal/logging"
	"crusher/internal/pool"
	"crusher/internal/spec"
	"crusher/internal/task"
	"crusher/internal/telemetry"
)

func main() {
	cfgPath := flag.String("config", "", "runtime config yaml (optional)")
	jobPath := flag.String("job", "job.yml", "job manifest")
	flag.Parse()

	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Log.Level != "" || cfg.Log.JSON {
		logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	}
	if cfg.MetricsPort > 0 {
		telemetry.Expose(cfg.MetricsPort)
	}

	javaPath, found := extproc.LookupJava(cfg.JavaPath)
	if found {
		logging.L().Info("java runtime found", "path", javaPath)
	} else {
		logging.L().Warn("no java runtime; jar-backed engines will fail if requested")
	}

	reg := engine.Builtin(engine.Options{
		JavaPath:   javaPath,
		YUIJar:     cfg.YUIJar,
		ClosureURL: cfg.ClosureURL,
		HTTPClient: &http.Client{Timeout: cfg.ClosureTimeout},
	})

	p := pool.New(reg, pool.Config{Workers: cfg.Workers})
	p.Initialize(ctx)
	defer p.Close()

	job, err := config.LoadJobSpec(*jobPath)
	if err != nil {
		log.Fatalf("job: %v", err)
	}
	// validate requested engines against the registry before dispatch
	for _, ts := range job.Tasks {
		for _, name := range task.ParseEngines(ts.Engines) {
			if _, err := reg.Lookup(name, ts.Ext); err != nil {
				log.Fatalf("task %s: %v (available for %s: %v)",
					ts.ID, err, ts.Ext, reg.Names(ts.Ext))
			}
		}
	}

	var wg sync.WaitGroup
	for _, ts := range job.Tasks {
		t, err := buildTask(ts)
		if err != nil {
			log.Fatalf("task %s: %v", ts.ID, err)
		}
		wg.Add(1)
		err = p.Send(t, func(err error, t *task.Task) {
			defer wg.Done()
			if err != nil {
				logging.L().Error("task failed", "task", t.ID, "err", err, "duration", t.Duration)
				return
			}
			logging.L().Info("task done",
				"task", t.ID, "bytes", len(t.Content), "gzip", t.GzipSize, "duration", t.Duration)
		})
		if err != nil {
			wg.Done()
			log.Fatalf("dispatch %s: %v", t.ID, err)
		}
	}
	wg.Wait()
}

func buildTask(ts spec.TaskSpec) (*task.Task, error) {
	content := ts.Content
	if ts.File != "" {
		raw, err := os.ReadFile(ts.File)
		if err != nil {
			return nil, err
		}
		content = string(raw)
	}
	return &task.Task{
		ID:      ts.ID,
		Engines: task.ParseEngines(ts.Engines),
		Ext:     ts.Ext,
		Content: content,
		Gzip:    ts.Gzip,
	}, nil
}
