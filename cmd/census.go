package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/census"
	"github.com/lvmt-matsim/ile-de-france/internal/config"
	"github.com/lvmt-matsim/ile-de-france/internal/export"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
	"github.com/lvmt-matsim/ile-de-france/internal/spatial"
	"github.com/lvmt-matsim/ile-de-france/internal/store"
)

var censusCmd = &cobra.Command{
	Use:   "census",
	Short: "Prepare the census population tables",
}

var censusCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean the raw census extract and write persons and households",
	Long: "Reads census.raw_path and spatial.codes_path, assigns household and person ids, " +
		"validates spatial codes, recodes attributes, and writes <prefix>persons.csv and " +
		"<prefix>households.csv to output.path.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Viper().Set("output.path", out)
			cfg.Output.Path = out
		}
		if prefix, _ := cmd.Flags().GetString("prefix"); prefix != "" {
			cfg.Viper().Set("output.prefix", prefix)
			cfg.Output.Prefix = prefix
		}

		rep, err := runClean(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printCleanReport(os.Stdout, rep)
		return nil
	},
}

func init() {
	censusCleanCmd.Flags().String("out", "", "output directory (overrides output.path)")
	censusCleanCmd.Flags().String("prefix", "", "output file prefix (overrides output.prefix)")

	censusCmd.AddCommand(censusCleanCmd)
	rootCmd.AddCommand(censusCmd)
}

// cleanReport summarizes a finished cleaning run.
type cleanReport struct {
	RunID        string
	Result       *export.Result
	ManifestPath string
	Stored       int64
}

// newRegistry returns the stages of the census cleaning pipeline.
func newRegistry(m *census.Metrics) *pipeline.Registry {
	return pipeline.NewRegistry(
		census.RawStage{},
		spatial.Stage{},
		&census.Stage{Metrics: m},
		export.Stage{},
	)
}

// runClean executes the pipeline up to the output stage, records the run in
// the configured store and writes the manifest and metrics textfile. Output
// files are only left on disk when the whole run succeeds.
func runClean(ctx context.Context, c *config.Config) (*cleanReport, error) {
	log := zap.L().With(zap.String("component", "cmd.census.clean"))

	if err := export.ValidateDir(c.Viper().GetString("output.path")); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics := census.NewMetrics(reg)

	st, err := initStore(ctx, c.Store)
	if err != nil {
		return nil, err
	}
	if st != nil {
		defer st.Close() //nolint:errcheck
	}

	inputs := model.RunInputs{RawPath: c.Census.RawPath, CodesPath: c.Spatial.CodesPath}
	var run *model.Run
	if st != nil {
		run, err = st.StartRun(ctx, inputs)
		if err != nil {
			return nil, err
		}
		log = log.With(zap.String("run_id", run.ID))
	}

	rep, err := executeClean(ctx, c, metrics, st, run)
	if err != nil {
		if run != nil {
			if ferr := st.FailRun(context.WithoutCancel(ctx), run.ID, err); ferr != nil {
				log.Warn("failed to record run failure", zap.Error(ferr))
			}
		}
		log.Error("census cleaning failed", zap.Error(err))
		return nil, err
	}

	if path := c.Metrics.TextfilePath; path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			log.Warn("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}

	log.Info("census cleaning complete",
		zap.Int("persons", rep.Result.Persons),
		zap.Int("households", rep.Result.Households),
	)
	return rep, nil
}

// executeClean persists the cleaned table before anything is written to the
// output directory, and removes the written files if the run cannot be
// completed afterwards.
func executeClean(ctx context.Context, c *config.Config, m *census.Metrics, st store.Store, run *model.Run) (*cleanReport, error) {
	runner := pipeline.NewRunner(newRegistry(m), c.Viper())

	tv, err := runner.Run(ctx, census.StageName)
	if err != nil {
		return nil, err
	}
	table, ok := tv.(*census.Table)
	if !ok {
		return nil, eris.Errorf("census clean: unexpected cleaned result %T", tv)
	}

	var stored int64
	if st != nil {
		stored, err = st.SavePersons(ctx, run.ID, table.Persons)
		if err != nil {
			return nil, err
		}
	}

	// Served from the runner cache up to the output stage itself.
	v, err := runner.Run(ctx, export.StageName)
	if err != nil {
		return nil, err
	}
	res, ok := v.(*export.Result)
	if !ok {
		return nil, eris.Errorf("census clean: unexpected output result %T", v)
	}

	rep := &cleanReport{
		Result:       res,
		ManifestPath: export.ManifestPath(c.Viper().GetString("output.path"), c.Viper().GetString("output.prefix")),
		Stored:       stored,
	}
	if err := finishClean(ctx, c, st, run, rep); err != nil {
		removeOutputs(res.PersonsPath, res.HouseholdsPath, rep.ManifestPath)
		return nil, err
	}
	return rep, nil
}

func finishClean(ctx context.Context, c *config.Config, st store.Store, run *model.Run, rep *cleanReport) error {
	manifest := export.NewManifest(export.Inputs{
		RawPath:      c.Census.RawPath,
		CodesPath:    c.Spatial.CodesPath,
		Departements: c.Spatial.Departements,
	}, *rep.Result)
	if run != nil {
		id, err := uuid.Parse(run.ID)
		if err != nil {
			return eris.Wrap(err, "census clean: parse run id")
		}
		manifest.RunID = id
	}
	rep.RunID = manifest.RunID.String()
	if err := export.WriteManifest(rep.ManifestPath, manifest); err != nil {
		return err
	}

	if st == nil {
		return nil
	}
	return st.CompleteRun(ctx, run.ID, rep.Result.Persons, rep.Result.Households)
}

func removeOutputs(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("failed to remove partial output", zap.String("path", p), zap.Error(err))
		}
	}
}

func printCleanReport(w io.Writer, rep *cleanReport) {
	_, _ = fmt.Fprintf(w, "run:        %s\n", rep.RunID)
	_, _ = fmt.Fprintf(w, "persons:    %d -> %s\n", rep.Result.Persons, rep.Result.PersonsPath)
	_, _ = fmt.Fprintf(w, "households: %d -> %s\n", rep.Result.Households, rep.Result.HouseholdsPath)
	_, _ = fmt.Fprintf(w, "manifest:   %s\n", rep.ManifestPath)
	if rep.Stored > 0 {
		_, _ = fmt.Fprintf(w, "stored:     %d rows\n", rep.Stored)
	}
}
