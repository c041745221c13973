package census

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvmt-matsim/ile-de-france/internal/hts"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

func roster() []model.Person {
	return []model.Person{
		{PersonID: 0, HouseholdID: 0, Age: 40},
		{PersonID: 1, HouseholdID: 0, Age: 38},
		{PersonID: 2, HouseholdID: 0, Age: 6},
		{PersonID: 3, HouseholdID: 1, Age: 70},
		{PersonID: 4, HouseholdID: 5, Age: 20},
		{PersonID: 5, HouseholdID: 5, Age: 19},
	}
}

func units(id int64, cu float64) hts.HouseholdUnits {
	return hts.HouseholdUnits{HouseholdID: id, ConsumptionUnits: cu}
}

func TestMergeHouseholdSize(t *testing.T) {
	persons := roster()
	MergeHouseholdSize(persons)

	assert.Len(t, persons, 6)
	sizes := []int{3, 3, 3, 1, 2, 2}
	for i, p := range persons {
		assert.Equal(t, sizes[i], p.HouseholdSize, "person %d", p.PersonID)
	}
}

func TestMergeConsumptionUnits_Broadcasts(t *testing.T) {
	persons := roster()
	require.NoError(t, MergeConsumptionUnits(persons, hts.NewOECDCalculator()))

	assert.Len(t, persons, 6)
	for _, p := range persons[:3] {
		assert.InDelta(t, 1.8, p.ConsumptionUnits, 1e-9)
	}
	assert.InDelta(t, 1.0, persons[3].ConsumptionUnits, 1e-9)
	assert.InDelta(t, 1.5, persons[4].ConsumptionUnits, 1e-9)
	assert.Equal(t, persons[4].ConsumptionUnits, persons[5].ConsumptionUnits)
}

func TestMergeConsumptionUnits_Contract(t *testing.T) {
	tests := []struct {
		name    string
		rows    []hts.HouseholdUnits
		want    ContractError
		wantMsg string
	}{
		{
			name: "duplicate household",
			rows: []hts.HouseholdUnits{units(0, 1), units(0, 1), units(0, 2), units(1, 1), units(5, 1)},
			want: ContractError{Duplicates: []int64{0}},
		},
		{
			name:    "missing household",
			rows:    []hts.HouseholdUnits{units(0, 1), units(5, 1)},
			want:    ContractError{Missing: []int64{1}},
			wantMsg: "1 missing",
		},
		{
			name: "extra household",
			rows: []hts.HouseholdUnits{units(0, 1), units(1, 1), units(5, 1), units(9, 1)},
			want: ContractError{Extra: []int64{9}},
		},
		{
			name: "empty result",
			rows: nil,
			want: ContractError{Missing: []int64{0, 1, 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persons := roster()
			calc := calcFunc(func([]model.Person) ([]hts.HouseholdUnits, error) { return tt.rows, nil })

			err := MergeConsumptionUnits(persons, calc)
			var contract *ContractError
			require.True(t, errors.As(err, &contract))
			assert.Equal(t, tt.want, *contract)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			for _, p := range persons {
				assert.Zero(t, p.ConsumptionUnits)
			}
		})
	}
}

func TestMergeConsumptionUnits_CalculatorError(t *testing.T) {
	calc := calcFunc(func([]model.Person) ([]hts.HouseholdUnits, error) { return nil, errors.New("boom") })
	err := MergeConsumptionUnits(roster(), calc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census: consumption units")
}
