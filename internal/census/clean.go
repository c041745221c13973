// Package census turns the raw INSEE person extract into the cleaned
// household/person table: identifiers, spatial codes, recoded attributes and
// household aggregates.
package census

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/hts"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/recode"
)

// Options configures Clean.
type Options struct {
	Metrics *Metrics // optional
}

// Table is the cleaned census in canonical order (household id, person id).
// It must not be modified once returned.
type Table struct {
	Persons []model.Person
}

// Len returns the number of persons.
func (t *Table) Len() int { return len(t.Persons) }

// HouseholdCount returns the number of distinct households.
func (t *Table) HouseholdCount() int {
	n := 0
	for i, p := range t.Persons {
		if i == 0 || p.HouseholdID != t.Persons[i-1].HouseholdID {
			n++
		}
	}
	return n
}

// Households returns one household-level row per household.
func (t *Table) Households() []model.Household {
	return Households(t.Persons)
}

// Clean runs the full transform over raw. It returns either the complete
// table or an error; no partial result is ever returned.
func Clean(ctx context.Context, raw []model.RawRecord, codes CodeSet, calc hts.Calculator, opts Options) (*Table, error) {
	log := zap.L().With(zap.String("component", "census.clean"))
	start := time.Now()
	defer opts.Metrics.ObserveClean(start)

	householdIDs := AssignHouseholds(raw)

	persons := make([]model.Person, len(raw))
	for i, r := range raw {
		persons[i].HouseholdID = householdIDs[i]
		persons[i].IrisID, persons[i].CommuneID, persons[i].DepartementID = ResolveSpatial(r)
	}
	AssignPersons(persons)
	SortCanonical(persons)

	if err := ValidateSpatial(persons, codes); err != nil {
		var unknown *UnknownCodesError
		if errors.As(err, &unknown) {
			opts.Metrics.ObserveUnknownCodes(unknown)
			log.Error("spatial validation failed",
				zap.String("level", unknown.Level),
				zap.Strings("codes", unknown.Codes),
			)
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range persons {
		// PersonID is still the raw row index.
		rowIdx := persons[i].PersonID
		attrs, err := recode.Record(raw[rowIdx])
		if err != nil {
			return nil, eris.Wrapf(err, "census: recode row %d", rowIdx)
		}
		attrs.PersonID = persons[i].PersonID
		attrs.HouseholdID = persons[i].HouseholdID
		attrs.IrisID = persons[i].IrisID
		attrs.CommuneID = persons[i].CommuneID
		attrs.DepartementID = persons[i].DepartementID
		persons[i] = attrs
	}

	MergeHouseholdSize(persons)
	if err := MergeConsumptionUnits(persons, calc); err != nil {
		return nil, err
	}

	t := &Table{Persons: persons}
	opts.Metrics.ObserveTable(t)
	log.Info("census cleaned",
		zap.Int("persons", t.Len()),
		zap.Int("households", t.HouseholdCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}
