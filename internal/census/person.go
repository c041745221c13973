package census

import (
	"sort"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// AssignPersons numbers persons by position, starting at zero.
func AssignPersons(persons []model.Person) {
	for i := range persons {
		persons[i].PersonID = int64(i)
	}
}

// SortCanonical orders persons by household id, then person id.
func SortCanonical(persons []model.Person) {
	sort.SliceStable(persons, func(i, j int) bool {
		a, b := persons[i], persons[j]
		if a.HouseholdID != b.HouseholdID {
			return a.HouseholdID < b.HouseholdID
		}
		return a.PersonID < b.PersonID
	})
}
