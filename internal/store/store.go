// Package store records cleaning runs and persists cleaned census tables.
package store

import (
	"context"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the cleaning pipeline.
type Store interface {
	// Runs
	StartRun(ctx context.Context, inputs model.RunInputs) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, persons, households int) error
	FailRun(ctx context.Context, runID string, cause error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Cleaned table, replaced as a whole for a run.
	SavePersons(ctx context.Context, runID string, persons []model.Person) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

// personColumns is the census_persons column list: the run id followed by the
// cleaned table columns.
func personColumns(columns []string) []string {
	return append([]string{"run_id"}, columns...)
}
