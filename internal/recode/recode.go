// Package recode maps raw INSEE census codes to the cleaned census vocabulary.
//
// Each rule is a pure function of its raw code. Codes without a mapping yield
// the missing variant of the target type unless a fallback is listed in the table.
package recode

import (
	"strconv"
	"strings"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// Raw codes with a fixed meaning across several fields.
const (
	notApplicable = "Z"
	unknown       = "X"
	undisclosed   = "U"

	coupleYes   = "1"
	employed    = "11"
	inEducation = "1"
)

// CommuteModes maps TRANS codes. Code 1 ("no transport") and Z stay missing.
var CommuteModes = map[string]model.CommuteMode{
	"2": model.CommuteWalk,
	"3": model.CommuteBike,
	"4": model.CommuteCar,
	"5": model.CommutePT,
}

// Sexes maps SEXE codes.
var Sexes = map[string]model.Sex{
	"1": model.SexMale,
	"2": model.SexFemale,
}

// HousingTypes maps TYPL codes.
var HousingTypes = map[string]model.HousingType{
	"1": model.HousingHouse,
	"2": model.HousingFlat,
	"3": model.HousingOthers, // logement-foyer
	"4": model.HousingOthers, // chambre d'hôtel
	"5": model.HousingOthers, // habitation de fortune
	"6": model.HousingOthers, // pièce indépendante
	"Z": model.HousingOthers, // hors logement ordinaire
}

// HouseholdTypes maps SFM codes.
var HouseholdTypes = map[string]model.HouseholdType{
	"11": model.HouseholdSingleMan,
	"12": model.HouseholdSingleWoman,
	"21": model.HouseholdMonoparentalFather,
	"22": model.HouseholdMonoparentalMother,
	"30": model.HouseholdCoupleNoChildren,
	"31": model.HouseholdCoupleWithChildren,
	"32": model.HouseholdCoupleWithChildren,
	"33": model.HouseholdCoupleWithChildren,
	"34": model.HouseholdCoupleWithChildren,
	"40": model.HouseholdOthers,
	"51": model.HouseholdOthers,
	"52": model.HouseholdOthers,
	"53": model.HouseholdOthers,
	"54": model.HouseholdOthers,
	"61": model.HouseholdOthers,
	"62": model.HouseholdOthers,
	"70": model.HouseholdOthers,
	"ZZ": model.HouseholdOthers,
}

// ParkingCodes maps GARL codes.
var ParkingCodes = map[string]model.Parking{
	"1": model.ParkingAvailable,
	"2": model.ParkingNone,
	"Z": model.ParkingNone,
}

// outsideRegion lists the ILT / ILETUD codes for a place located outside the
// region of residence.
var outsideRegion = map[string]bool{
	"4": true,
	"5": true,
	"6": true,
}

// Age parses a zero-padded AGED code. "000" is age 0.
func Age(code string) (int, error) {
	code = strings.TrimSpace(code)
	trimmed := strings.TrimLeft(code, "0")
	if trimmed == "" && code != "" {
		return 0, nil
	}
	age, err := strconv.Atoi(trimmed)
	if err != nil || age < 0 {
		return 0, &CodeError{Field: "AGED", Code: code}
	}
	return age, nil
}

// Couple reports whether the COUPLE code denotes a person living in a couple.
func Couple(code string) bool {
	return code == coupleYes
}

// CommuteMode recodes a TRANS code.
func CommuteMode(code string) model.CommuteMode {
	return CommuteModes[code]
}

// Sex recodes a SEXE code.
func Sex(code string) model.Sex {
	return Sexes[code]
}

// Employed reports whether the TACT code denotes an employed person.
func Employed(code string) bool {
	return code == employed
}

// Studies reports whether the ETUD code denotes a person in education.
func Studies(code string) bool {
	return code == inEducation
}

// Vehicles sums the cars (VOIT) and two-wheelers (DEROU) of a household.
// Sentinel characters count as zero.
func Vehicles(cars, twoWheels string) (int, error) {
	c, err := vehicleCount("VOIT", cars, notApplicable, unknown)
	if err != nil {
		return 0, err
	}
	w, err := vehicleCount("DEROU", twoWheels, undisclosed, notApplicable, unknown)
	if err != nil {
		return 0, err
	}
	return c + w, nil
}

func vehicleCount(field, code string, sentinels ...string) (int, error) {
	s := strings.TrimSpace(code)
	for _, sentinel := range sentinels {
		s = strings.ReplaceAll(s, sentinel, "0")
	}
	if s == "" {
		return 0, &CodeError{Field: field, Code: code}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &CodeError{Field: field, Code: code}
	}
	return n, nil
}

// SocioprofessionalClass parses a CS1 code.
func SocioprofessionalClass(code string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return 0, &CodeError{Field: "CS1", Code: code}
	}
	return n, nil
}

// OutsideRegion reports whether an ILT or ILETUD code places work or study
// outside the region of residence.
func OutsideRegion(code string) bool {
	return outsideRegion[code]
}

// HousingType recodes a TYPL code.
func HousingType(code string) model.HousingType {
	return HousingTypes[code]
}

// HouseholdType recodes an SFM code.
func HouseholdType(code string) model.HouseholdType {
	return HouseholdTypes[code]
}

// Parking recodes a GARL code.
func Parking(code string) model.Parking {
	return ParkingCodes[code]
}

// ConstructionPeriod passes the ACHLR code through unchanged.
func ConstructionPeriod(code string) string {
	return code
}

// Weight parses an IPONDI sampling weight.
func Weight(code string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(code), 64)
	if err != nil {
		return 0, &CodeError{Field: "IPONDI", Code: code}
	}
	return w, nil
}
