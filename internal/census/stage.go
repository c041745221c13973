package census

import (
	"context"

	"github.com/lvmt-matsim/ile-de-france/internal/hts"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
	"github.com/lvmt-matsim/ile-de-france/internal/spatial"
)

// StageName is the pipeline name of the cleaning stage.
const StageName = "data.census.cleaned"

// Stage runs Clean over the raw extract and the spatial reference and returns
// a *Table.
type Stage struct {
	Calculator hts.Calculator // defaults to the OECD scale
	Metrics    *Metrics
}

func (s *Stage) Name() string { return StageName }

func (s *Stage) Requires() []string {
	return []string{RawStageName, spatial.StageName}
}

func (s *Stage) Execute(ctx context.Context, pc pipeline.Context) (any, error) {
	raw, err := pipeline.Get[[]model.RawRecord](pc, RawStageName)
	if err != nil {
		return nil, err
	}
	codes, err := pipeline.Get[*spatial.Codes](pc, spatial.StageName)
	if err != nil {
		return nil, err
	}

	calc := s.Calculator
	if calc == nil {
		calc = hts.NewOECDCalculator()
	}
	return Clean(ctx, raw, codes, calc, Options{Metrics: s.Metrics})
}
