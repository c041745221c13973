package census

import (
	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// NoHousehold is the NUMMI code of persons outside any multi-person household.
const NoHousehold = "Z"

type householdKey struct {
	area string
	seq  string
}

// AssignHouseholds returns one household id per record, index-aligned with
// records. Records sharing (CANTVILLE, NUMMI) get the same id, numbered densely
// in order of first appearance. Records with NUMMI == "Z" each get their own id,
// numbered after the last group so the two ranges never overlap.
func AssignHouseholds(records []model.RawRecord) []int64 {
	ids := make([]int64, len(records))
	groups := make(map[householdKey]int64)

	for i, r := range records {
		if r.HouseholdSeq == NoHousehold {
			ids[i] = -1
			continue
		}
		key := householdKey{area: r.CantonVille, seq: r.HouseholdSeq}
		id, ok := groups[key]
		if !ok {
			id = int64(len(groups))
			groups[key] = id
		}
		ids[i] = id
	}

	next := int64(len(groups))
	for i := range ids {
		if ids[i] < 0 {
			ids[i] = next
			next++
		}
	}
	return ids
}
