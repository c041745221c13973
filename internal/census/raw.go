package census

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/fetcher"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
)

// RawStageName is the pipeline name of the raw extract stage.
const RawStageName = "data.census.raw"

// DefaultZipPattern matches the person file inside the INSEE archive.
const DefaultZipPattern = "FD_INDCVI_*.csv"

// RawOptions configures ReadRaw.
type RawOptions struct {
	Delimiter rune   // default ';'
	Encoding  string // source charset; empty = UTF-8
}

// ReadRaw decodes the person extract. The header row must name every
// RawRecord column; extra columns are ignored.
func ReadRaw(ctx context.Context, r io.Reader, opts RawOptions) ([]model.RawRecord, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ';'
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		Delimiter:  opts.Delimiter,
		LazyQuotes: true,
		TrimSpace:  true,
		Encoding:   opts.Encoding,
	})

	dec, err := csvutil.NewDecoder(fetcher.NewRowReader(rowCh, errCh))
	if err == io.EOF {
		return nil, eris.New("census: raw extract is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "census: read raw header")
	}
	dec.DisallowMissingColumns = true

	var records []model.RawRecord
	for {
		var rec model.RawRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "census: decode raw row %d", len(records))
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadRawFile reads a CSV extract, or the single file matching zipPattern
// when path is a ZIP archive.
func ReadRawFile(ctx context.Context, path, zipPattern string, opts RawOptions) ([]model.RawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		tmp, err := os.MkdirTemp("", "idf-census-*")
		if err != nil {
			return nil, eris.Wrap(err, "census: create temp dir")
		}
		defer os.RemoveAll(tmp) //nolint:errcheck

		if zipPattern == "" {
			zipPattern = DefaultZipPattern
		}
		path, err = fetcher.ExtractZIPMatching(path, zipPattern, tmp)
		if err != nil {
			return nil, eris.Wrap(err, "census: extract raw archive")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "census: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadRaw(ctx, f, opts)
}

// RawStage loads the raw extract from census.raw_path and returns
// []model.RawRecord. Optional keys: census.delimiter, census.encoding,
// census.zip_pattern.
type RawStage struct{}

func (RawStage) Name() string       { return RawStageName }
func (RawStage) Requires() []string { return nil }

func (RawStage) Execute(ctx context.Context, pc pipeline.Context) (any, error) {
	path := pipeline.ConfigString(pc, "census.raw_path", "")
	if path == "" {
		return nil, eris.New("census: census.raw_path is not set")
	}

	opts := RawOptions{
		Encoding: pipeline.ConfigString(pc, "census.encoding", ""),
	}
	for _, r := range pipeline.ConfigString(pc, "census.delimiter", ";") {
		opts.Delimiter = r
		break
	}

	records, err := ReadRawFile(ctx, path, pipeline.ConfigString(pc, "census.zip_pattern", DefaultZipPattern), opts)
	if err != nil {
		return nil, err
	}
	zap.L().Info("census: raw extract loaded", zap.String("path", path), zap.Int("rows", len(records)))
	return records, nil
}
