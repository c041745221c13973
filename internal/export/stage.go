package export

import (
	"context"

	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/census"
	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
)

// StageName is the pipeline name of the output stage.
const StageName = "synthesis.output"

// Stage writes the cleaned census to output.path with output.prefix and
// returns *Result.
type Stage struct{}

func (Stage) Name() string       { return StageName }
func (Stage) Requires() []string { return []string{census.StageName} }

func (Stage) Execute(_ context.Context, pc pipeline.Context) (any, error) {
	opts := Options{
		Dir:    pipeline.ConfigString(pc, "output.path", ""),
		Prefix: pipeline.ConfigString(pc, "output.prefix", DefaultPrefix),
	}
	table, err := pipeline.Get[*census.Table](pc, census.StageName)
	if err != nil {
		return nil, err
	}

	res, err := Write(table, opts)
	if err != nil {
		return nil, err
	}
	zap.L().Info("export: output written",
		zap.String("persons", res.PersonsPath),
		zap.String("households", res.HouseholdsPath),
		zap.Int("person_rows", res.Persons),
		zap.Int("household_rows", res.Households),
	)
	return res, nil
}
