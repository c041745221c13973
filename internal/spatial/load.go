package spatial

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/fetcher"
)

// Column aliases accepted in reference headers, lower-cased.
var (
	irisColumns        = []string{"code_iris", "iris_id", "iris"}
	communeColumns     = []string{"depcom", "insee_com", "commune_id", "com"}
	departementColumns = []string{"dep", "departement_id"}
)

// LoadXLSX reads the INSEE IRIS reference workbook. The header row is located
// by scanning for an IRIS column, since the published file starts with a few
// rows of notes.
func LoadXLSX(path, sheet string) ([]Reference, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet})
	if err != nil {
		return nil, eris.Wrap(err, "spatial: read workbook")
	}

	for i, row := range rows {
		idx := mapColumns(row)
		if _, ok := lookup(idx, irisColumns); !ok {
			continue
		}
		refs, err := fromRows(idx, rows[i+1:])
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: workbook %s", path)
		}
		zap.L().Debug("spatial: loaded workbook",
			zap.String("path", path),
			zap.Int("header_row", i),
			zap.Int("rows", len(refs)),
		)
		return refs, nil
	}
	return nil, eris.Errorf("spatial: no header with an IRIS column in %s", path)
}

// LoadCSV reads a delimited reference table with a header row.
func LoadCSV(ctx context.Context, r io.Reader, delimiter rune) ([]Reference, error) {
	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		Delimiter:  delimiter,
		LazyQuotes: true,
		TrimSpace:  true,
	})
	reader := fetcher.NewRowReader(rowCh, errCh)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("spatial: empty reference csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "spatial: read header")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "spatial: read row")
		}
		rows = append(rows, row)
	}
	return fromRows(mapColumns(header), rows)
}

// LoadCSVFile opens path and reads it with LoadCSV.
func LoadCSVFile(ctx context.Context, path string, delimiter rune) ([]Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return LoadCSV(ctx, f, delimiter)
}

// LoadShapefile reads the attribute table of the IRIS contours shapefile.
// Geometries are ignored.
func LoadShapefile(path string) ([]Reference, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "spatial: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// The reader looks for the attribute table next to the .shp and yields no
	// fields when it cannot open it.
	dbfPath := path[:len(path)-len("shp")] + "dbf"
	if _, err := os.Stat(dbfPath); err != nil {
		return nil, eris.Wrapf(err, "spatial: cannot read attribute table of %s", path)
	}
	fields := reader.Fields()
	if len(fields) == 0 {
		return nil, eris.Errorf("spatial: cannot read attribute table %s", dbfPath)
	}
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.TrimRight(f.String(), "\x00")
	}
	idx := mapColumns(header)
	if _, ok := lookup(idx, irisColumns); !ok {
		return nil, eris.Errorf("spatial: shapefile %s has no IRIS attribute", path)
	}

	var rows [][]string
	for reader.Next() {
		row := make([]string, len(fields))
		for i := range fields {
			row[i] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}
		rows = append(rows, row)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "spatial: read shapefile %s", path)
	}
	return fromRows(idx, rows)
}

func fromRows(idx map[string]int, rows [][]string) ([]Reference, error) {
	irisCol, ok := lookup(idx, irisColumns)
	if !ok {
		return nil, eris.New("spatial: missing IRIS column")
	}
	communeCol, hasCommune := lookup(idx, communeColumns)
	depCol, hasDep := lookup(idx, departementColumns)

	refs := make([]Reference, 0, len(rows))
	for _, row := range rows {
		ref := Reference{IrisID: cell(row, irisCol)}
		if ref.IrisID == "" {
			continue
		}
		if hasCommune {
			ref.CommuneID = cell(row, communeCol)
		}
		if ref.CommuneID == "" && len(ref.IrisID) >= 5 {
			ref.CommuneID = ref.IrisID[:5]
		}
		if hasDep {
			ref.DepartementID = cell(row, depCol)
		}
		if ref.DepartementID == "" {
			ref.DepartementID = DepartementOf(ref.CommuneID)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

func lookup(idx map[string]int, aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := idx[a]; ok {
			return i, true
		}
	}
	return 0, false
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
