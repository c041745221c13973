package census

import (
	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// Columns is the output column order of the cleaned person table.
var Columns = []string{
	"person_id", "household_id", "weight",
	"iris_id", "commune_id", "departement_id",
	"age", "sex", "couple",
	"commute_mode", "employed",
	"studies", "number_of_vehicles", "household_size",
	"work_outside_region", "education_outside_region",
	"consumption_units", "socioprofessional_class",
	"housing_type", "household_type", "parking", "achlr",
}

// Row returns the values of p in Columns order. Missing categorical values are nil.
func Row(p model.Person) []any {
	return []any{
		p.PersonID, p.HouseholdID, p.Weight,
		p.IrisID, p.CommuneID, p.DepartementID,
		p.Age, nullable(string(p.Sex)), p.Couple,
		nullable(string(p.CommuteMode)), p.Employed,
		p.Studies, p.NumberOfVehicles, p.HouseholdSize,
		p.WorkOutsideRegion, p.EducationOutsideRegion,
		p.ConsumptionUnits, p.SocioprofessionalClass,
		nullable(string(p.HousingType)), nullable(string(p.HouseholdType)), nullable(string(p.Parking)), p.ConstructionPeriod,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Households returns the first person of every household projected to the
// household-level columns, in person order.
func Households(persons []model.Person) []model.Household {
	seen := make(map[int64]struct{})
	var out []model.Household
	for _, p := range persons {
		if _, ok := seen[p.HouseholdID]; ok {
			continue
		}
		seen[p.HouseholdID] = struct{}{}
		out = append(out, model.HouseholdOf(p))
	}
	return out
}
