package hts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

func TestUnits(t *testing.T) {
	tests := []struct {
		name             string
		adults, children int
		want             float64
	}{
		{"single adult", 1, 0, 1.0},
		{"couple", 2, 0, 1.5},
		{"couple with two children", 2, 2, 2.1},
		{"single parent", 1, 1, 1.3},
		{"children only", 0, 2, 1.6},
		{"large household", 4, 3, 3.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Units(tt.adults, tt.children), 1e-9)
		})
	}
}

func TestOECDCalculator_OneRowPerHousehold(t *testing.T) {
	roster := []model.Person{
		{PersonID: 0, HouseholdID: 2, Age: 40},
		{PersonID: 1, HouseholdID: 0, Age: 35},
		{PersonID: 2, HouseholdID: 0, Age: 33},
		{PersonID: 3, HouseholdID: 0, Age: 5},
		{PersonID: 4, HouseholdID: 2, Age: 13},
		{PersonID: 5, HouseholdID: 7, Age: 80},
	}

	units, err := NewOECDCalculator().ConsumptionUnits(roster)
	require.NoError(t, err)
	require.Len(t, units, 3)

	assert.Equal(t, int64(0), units[0].HouseholdID)
	assert.InDelta(t, 1.8, units[0].ConsumptionUnits, 1e-9)
	assert.Equal(t, int64(2), units[1].HouseholdID)
	assert.InDelta(t, 1.3, units[1].ConsumptionUnits, 1e-9)
	assert.Equal(t, int64(7), units[2].HouseholdID)
	assert.InDelta(t, 1.0, units[2].ConsumptionUnits, 1e-9)
}

func TestOECDCalculator_Empty(t *testing.T) {
	units, err := NewOECDCalculator().ConsumptionUnits(nil)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestOECDCalculator_ChildrenOnlyHousehold(t *testing.T) {
	roster := []model.Person{
		{PersonID: 0, HouseholdID: 4, Age: 12},
		{PersonID: 1, HouseholdID: 4, Age: 9},
	}

	units, err := NewOECDCalculator().ConsumptionUnits(roster)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.InDelta(t, 1.6, units[0].ConsumptionUnits, 1e-9)
}
