package census

import (
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/hts"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/spatial"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// person returns a well-formed raw record for the given household key and IRIS.
func person(area, seq, iris, age string) model.RawRecord {
	return model.RawRecord{
		CantonVille:   area,
		HouseholdSeq:  seq,
		Iris:          iris,
		Departement:   iris[:2],
		AgeCode:       age,
		CoupleCode:    "2",
		TransportCode: "5",
		WeightCode:    "4.25",
		SexCode:       "1",
		ActivityCode:  "11",
		StudyCode:     "2",
		CarsCode:      "1",
		TwoWheelsCode: "0",
		SocioProCode:  "3",
		WorkplaceCode: "1",
		SchoolCode:    "Z",
		HousingCode:   "2",
		FamilyCode:    "30",
		ParkingCode:   "1",
		BuiltCode:     "3",
	}
}

func testCodes() *spatial.Codes {
	return spatial.NewCodes([]spatial.Reference{
		{IrisID: "751010101", CommuneID: "75101", DepartementID: "75"},
		{IrisID: "751010102", CommuneID: "75101", DepartementID: "75"},
		{IrisID: "920040000", CommuneID: "92004", DepartementID: "92"},
		{IrisID: "930010101", CommuneID: "93001", DepartementID: "93"},
	})
}

// calcFunc adapts a function to hts.Calculator.
type calcFunc func([]model.Person) ([]hts.HouseholdUnits, error)

func (f calcFunc) ConsumptionUnits(roster []model.Person) ([]hts.HouseholdUnits, error) {
	return f(roster)
}
