// Package pipeline resolves and executes named stages with per-run result caching.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Runner executes stages from a registry. Each stage runs at most once per
// Runner; later requests are served from the cache.
type Runner struct {
	reg     *Registry
	cfg     ConfigSource
	results map[string]any
	active  []string // stages currently being resolved, for cycle detection
}

// NewRunner creates a runner. cfg may be nil, in which case every Config lookup
// returns its default.
func NewRunner(reg *Registry, cfg ConfigSource) *Runner {
	return &Runner{
		reg:     reg,
		cfg:     cfg,
		results: make(map[string]any),
	}
}

// Run executes the named stage after its requirements and returns its result.
func (r *Runner) Run(ctx context.Context, name string) (any, error) {
	if v, ok := r.results[name]; ok {
		return v, nil
	}

	for _, a := range r.active {
		if a == name {
			return nil, eris.Errorf("pipeline: dependency cycle %s -> %s", strings.Join(r.active, " -> "), name)
		}
	}

	stage, err := r.reg.Get(name)
	if err != nil {
		return nil, err
	}

	r.active = append(r.active, name)
	defer func() { r.active = r.active[:len(r.active)-1] }()

	for _, dep := range stage.Requires() {
		if _, err := r.Run(ctx, dep); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	log := zap.L().With(zap.String("component", "pipeline.runner"), zap.String("stage", name))
	log.Info("executing stage")

	start := time.Now()
	result, err := stage.Execute(ctx, &stageContext{runner: r, stage: stage})
	elapsed := time.Since(start)
	if err != nil {
		log.Error("stage failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, eris.Wrapf(err, "pipeline: stage %s", name)
	}

	log.Info("stage complete", zap.Duration("elapsed", elapsed))
	r.results[name] = result
	return result, nil
}

// Cached reports whether a stage result is already available.
func (r *Runner) Cached(name string) bool {
	_, ok := r.results[name]
	return ok
}

type stageContext struct {
	runner *Runner
	stage  Stage
}

func (c *stageContext) Stage(name string) (any, error) {
	declared := false
	for _, dep := range c.stage.Requires() {
		if dep == name {
			declared = true
			break
		}
	}
	if !declared {
		return nil, eris.Errorf("pipeline: stage %q did not declare %q as a requirement", c.stage.Name(), name)
	}

	v, ok := c.runner.results[name]
	if !ok {
		return nil, eris.Errorf("pipeline: stage %q has no result", name)
	}
	return v, nil
}

func (c *stageContext) Config(key string, def any) any {
	if c.runner.cfg == nil || !c.runner.cfg.IsSet(key) {
		return def
	}
	return c.runner.cfg.Get(key)
}
