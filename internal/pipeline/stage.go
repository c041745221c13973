package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Stage is one named step of the synthesis pipeline. A stage may read the
// results of the stages it requires, and only those.
type Stage interface {
	// Name returns the unique stage name (e.g., "data.census.cleaned").
	Name() string

	// Requires lists the stages whose results Execute reads.
	Requires() []string

	// Execute computes the stage result.
	Execute(ctx context.Context, pc Context) (any, error)
}

// Context is the view of the pipeline a stage executes against.
type Context interface {
	// Stage returns the cached result of a required stage.
	Stage(name string) (any, error)

	// Config returns the configuration value for key, or def when unset.
	Config(key string, def any) any
}

// ConfigSource supplies configuration values to stages. *viper.Viper satisfies it.
type ConfigSource interface {
	Get(key string) any
	IsSet(key string) bool
}

// Get returns the result of a required stage as T.
func Get[T any](pc Context, name string) (T, error) {
	var zero T
	v, err := pc.Stage(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, eris.Errorf("pipeline: stage %q returned %T, want %T", name, v, zero)
	}
	return t, nil
}

// ConfigString returns a string configuration value, or def when unset or not a string.
func ConfigString(pc Context, key, def string) string {
	if s, ok := pc.Config(key, def).(string); ok {
		return s
	}
	return def
}

// ConfigStrings returns a list configuration value. Comma-separated strings and
// lists of any element type are accepted.
func ConfigStrings(pc Context, key string, def []string) []string {
	switch v := pc.Config(key, def).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, strings.TrimSpace(fmt.Sprint(e)))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return def
	}
}
