package spatial

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
)

// StageName is the pipeline name of the spatial reference stage.
const StageName = "data.spatial.codes"

// IleDeFrance lists the départements of the Île-de-France region.
var IleDeFrance = []string{"75", "77", "78", "91", "92", "93", "94", "95"}

// Stage loads the spatial reference and returns *Codes. It reads
// spatial.codes_path, spatial.format (xlsx, csv or shp; inferred from the
// extension when empty), spatial.sheet, spatial.delimiter and
// spatial.departements.
type Stage struct{}

func (Stage) Name() string       { return StageName }
func (Stage) Requires() []string { return nil }

func (Stage) Execute(ctx context.Context, pc pipeline.Context) (any, error) {
	path := pipeline.ConfigString(pc, "spatial.codes_path", "")
	if path == "" {
		return nil, eris.New("spatial: spatial.codes_path is not set")
	}
	format := pipeline.ConfigString(pc, "spatial.format", "")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	var refs []Reference
	var err error
	switch format {
	case "xlsx":
		refs, err = LoadXLSX(path, pipeline.ConfigString(pc, "spatial.sheet", ""))
	case "csv":
		delim := pipeline.ConfigString(pc, "spatial.delimiter", ";")
		refs, err = LoadCSVFile(ctx, path, firstRune(delim, ';'))
	case "shp":
		refs, err = LoadShapefile(path)
	default:
		return nil, eris.Errorf("spatial: unsupported reference format %q", format)
	}
	if err != nil {
		return nil, err
	}

	deps := pipeline.ConfigStrings(pc, "spatial.departements", IleDeFrance)
	refs = FilterDepartements(refs, deps)
	codes := NewCodes(refs)

	zap.L().Info("spatial: reference loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Strings("departements", deps),
		zap.Int("communes", len(codes.communes)),
		zap.Int("iris", codes.Len()),
	)
	return codes, nil
}

func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}
