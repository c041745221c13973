package census

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/lvmt-matsim/ile-de-france/internal/hts"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// MergeHouseholdSize sets HouseholdSize on every person to the number of
// persons sharing its household id.
func MergeHouseholdSize(persons []model.Person) {
	sizes := make(map[int64]int)
	for _, p := range persons {
		sizes[p.HouseholdID]++
	}
	for i := range persons {
		persons[i].HouseholdSize = sizes[persons[i].HouseholdID]
	}
}

// MergeConsumptionUnits asks calc for the consumption units of the roster and
// broadcasts them to every member. The result must hold exactly one row per
// household of the roster, otherwise a *ContractError is returned and persons
// are left untouched.
func MergeConsumptionUnits(persons []model.Person, calc hts.Calculator) error {
	rows, err := calc.ConsumptionUnits(persons)
	if err != nil {
		return eris.Wrap(err, "census: consumption units")
	}

	roster := make(map[int64]struct{})
	for _, p := range persons {
		roster[p.HouseholdID] = struct{}{}
	}

	units := make(map[int64]float64, len(rows))
	contract := &ContractError{}
	dup := make(map[int64]struct{})
	for _, r := range rows {
		if _, ok := units[r.HouseholdID]; ok {
			if _, seen := dup[r.HouseholdID]; !seen {
				dup[r.HouseholdID] = struct{}{}
				contract.Duplicates = append(contract.Duplicates, r.HouseholdID)
			}
			continue
		}
		units[r.HouseholdID] = r.ConsumptionUnits
		if _, ok := roster[r.HouseholdID]; !ok {
			contract.Extra = append(contract.Extra, r.HouseholdID)
		}
	}
	for id := range roster {
		if _, ok := units[id]; !ok {
			contract.Missing = append(contract.Missing, id)
		}
	}

	if !contract.empty() {
		sortIDs(contract.Duplicates)
		sortIDs(contract.Missing)
		sortIDs(contract.Extra)
		return contract
	}

	for i := range persons {
		persons[i].ConsumptionUnits = units[persons[i].HouseholdID]
	}
	return nil
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
