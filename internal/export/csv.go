// Package export writes the cleaned census to disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/lvmt-matsim/ile-de-france/internal/census"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// DefaultPrefix is prepended to every output file name.
const DefaultPrefix = "ile_de_france_"

// Options configures Write.
type Options struct {
	Dir    string // must exist
	Prefix string // defaults to DefaultPrefix
}

// Result describes the written files.
type Result struct {
	PersonsPath    string `yaml:"persons_path"`
	HouseholdsPath string `yaml:"households_path"`
	Persons        int    `yaml:"persons"`
	Households     int    `yaml:"households"`
}

// ValidateDir returns an error unless dir is an existing directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return eris.New("export: output directory is not set")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return eris.Errorf("export: output directory must exist: %s", dir)
	}
	return nil
}

// Write writes <prefix>persons.csv and <prefix>households.csv into opts.Dir,
// semicolon separated.
func Write(table *census.Table, opts Options) (*Result, error) {
	if err := ValidateDir(opts.Dir); err != nil {
		return nil, err
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}

	res := &Result{
		PersonsPath:    filepath.Join(opts.Dir, opts.Prefix+"persons.csv"),
		HouseholdsPath: filepath.Join(opts.Dir, opts.Prefix+"households.csv"),
	}

	if err := writeCSV(res.PersonsPath, model.Person{}, table.Persons); err != nil {
		_ = os.Remove(res.PersonsPath)
		return nil, eris.Wrap(err, "export: persons")
	}
	res.Persons = len(table.Persons)

	households := table.Households()
	if err := writeCSV(res.HouseholdsPath, model.Household{}, households); err != nil {
		_ = os.Remove(res.PersonsPath)
		_ = os.Remove(res.HouseholdsPath)
		return nil, eris.Wrap(err, "export: households")
	}
	res.Households = len(households)

	return res, nil
}

// writeCSV encodes rows, a slice of header's type, with the header written
// even when rows is empty.
func writeCSV(path string, header, rows any) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	w.Comma = ';'

	enc := csvutil.NewEncoder(w)
	if err := enc.EncodeHeader(header); err != nil {
		return eris.Wrap(err, "write header")
	}
	if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, fmt.Sprintf("encode %s", filepath.Base(path)))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "flush")
	}
	return f.Close()
}
