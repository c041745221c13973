// Package hts holds household-level measures shared between the census and the
// household travel survey.
package hts

import (
	"sort"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// Modified OECD equivalence scale.
const (
	firstAdultWeight = 1.0
	adultWeight      = 0.5
	childWeight      = 0.3
	childAgeLimit    = 14
)

// HouseholdUnits is the consumption-unit count of one household.
type HouseholdUnits struct {
	HouseholdID      int64   `json:"household_id"`
	ConsumptionUnits float64 `json:"consumption_units"`
}

// Calculator computes consumption units from a household roster. It must return
// exactly one row per distinct household present in the roster.
type Calculator interface {
	ConsumptionUnits(roster []model.Person) ([]HouseholdUnits, error)
}

// OECDCalculator applies the modified OECD scale: a base of 1 per household,
// plus 0.5 for every person aged 14 or more beyond the first and 0.3 per child
// under 14. The base applies even when every member is under 14.
type OECDCalculator struct{}

// NewOECDCalculator creates the default consumption-unit calculator.
func NewOECDCalculator() *OECDCalculator {
	return &OECDCalculator{}
}

type composition struct {
	adults   int
	children int
}

// ConsumptionUnits returns one row per household, sorted by household id.
func (c *OECDCalculator) ConsumptionUnits(roster []model.Person) ([]HouseholdUnits, error) {
	byHousehold := make(map[int64]*composition)
	for _, p := range roster {
		comp, ok := byHousehold[p.HouseholdID]
		if !ok {
			comp = &composition{}
			byHousehold[p.HouseholdID] = comp
		}
		if p.Age < childAgeLimit {
			comp.children++
		} else {
			comp.adults++
		}
	}

	units := make([]HouseholdUnits, 0, len(byHousehold))
	for id, comp := range byHousehold {
		units = append(units, HouseholdUnits{
			HouseholdID:      id,
			ConsumptionUnits: Units(comp.adults, comp.children),
		})
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].HouseholdID < units[j].HouseholdID
	})
	return units, nil
}

// Units returns the consumption units of a household with the given number of
// members aged 14 or more and under 14. Units(0, n) is 1 + 0.3n.
func Units(adults, children int) float64 {
	extra := max(adults-1, 0)
	return firstAdultWeight + adultWeight*float64(extra) + childWeight*float64(children)
}
