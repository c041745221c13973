package recode

import (
	"fmt"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// CodeError reports a numeric census field whose raw code cannot be parsed.
type CodeError struct {
	Field string
	Code  string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("recode: invalid %s code %q", e.Field, e.Code)
}

// Record applies every person-level rule to a raw record. Identifiers, spatial
// fields and household aggregates are left zero for the census transform to fill.
func Record(raw model.RawRecord) (model.Person, error) {
	var p model.Person
	var err error

	if p.Weight, err = Weight(raw.WeightCode); err != nil {
		return p, err
	}
	if p.Age, err = Age(raw.AgeCode); err != nil {
		return p, err
	}
	if p.NumberOfVehicles, err = Vehicles(raw.CarsCode, raw.TwoWheelsCode); err != nil {
		return p, err
	}
	if p.SocioprofessionalClass, err = SocioprofessionalClass(raw.SocioProCode); err != nil {
		return p, err
	}

	p.Sex = Sex(raw.SexCode)
	p.Couple = Couple(raw.CoupleCode)
	p.CommuteMode = CommuteMode(raw.TransportCode)
	p.Employed = Employed(raw.ActivityCode)
	p.Studies = Studies(raw.StudyCode)
	p.WorkOutsideRegion = OutsideRegion(raw.WorkplaceCode)
	p.EducationOutsideRegion = OutsideRegion(raw.SchoolCode)
	p.HousingType = HousingType(raw.HousingCode)
	p.HouseholdType = HouseholdType(raw.FamilyCode)
	p.Parking = Parking(raw.ParkingCode)
	p.ConstructionPeriod = ConstructionPeriod(raw.BuiltCode)

	return p, nil
}
