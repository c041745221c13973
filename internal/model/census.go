package model

// Undefined marks a spatial identifier that the census could not locate.
const Undefined = "undefined"

// RawRecord is one person row of the INSEE "individus localisés au
// canton-ou-ville" extract. Every field keeps its raw string code, including the
// sentinel characters Z, X and U used for "not applicable" and "unknown".
type RawRecord struct {
	CantonVille   string `csv:"CANTVILLE"` // area code
	HouseholdSeq  string `csv:"NUMMI"`     // within-area household sequence, Z = none
	Iris          string `csv:"IRIS"`      // IRIS code (9 chars)
	Departement   string `csv:"DEPT"`      // département code
	AgeCode       string `csv:"AGED"`      // age in completed years, zero-padded
	CoupleCode    string `csv:"COUPLE"`    // 1 = lives in a couple
	TransportCode string `csv:"TRANS"`     // main commute mode
	WeightCode    string `csv:"IPONDI"`    // sampling weight
	SexCode       string `csv:"SEXE"`      // 1 = male, 2 = female
	ActivityCode  string `csv:"TACT"`      // 11 = employed
	StudyCode     string `csv:"ETUD"`      // 1 = in education
	CarsCode      string `csv:"VOIT"`      // cars in the household
	TwoWheelsCode string `csv:"DEROU"`     // two-wheelers in the household
	SocioProCode  string `csv:"CS1"`       // socioprofessional group
	WorkplaceCode string `csv:"ILT"`       // workplace location indicator
	SchoolCode    string `csv:"ILETUD"`    // place of study indicator
	HousingCode   string `csv:"TYPL"`      // dwelling type
	FamilyCode    string `csv:"SFM"`       // household family structure
	ParkingCode   string `csv:"GARL"`      // dedicated parking space
	BuiltCode     string `csv:"ACHLR"`     // construction period
}

// Person is one row of the cleaned census table. Household-level fields carry
// the same value on every member of the household. Field order is the output
// column order.
//
// PersonID and HouseholdID are positional and only stable within a single run
// over the same input ordering. They are not durable keys.
type Person struct {
	PersonID    int64   `json:"person_id" csv:"person_id"`
	HouseholdID int64   `json:"household_id" csv:"household_id"`
	Weight      float64 `json:"weight" csv:"weight"`

	IrisID        string `json:"iris_id" csv:"iris_id"`
	CommuneID     string `json:"commune_id" csv:"commune_id"`
	DepartementID string `json:"departement_id" csv:"departement_id"`

	Age         int         `json:"age" csv:"age"`
	Sex         Sex         `json:"sex" csv:"sex"`
	Couple      bool        `json:"couple" csv:"couple"`
	CommuteMode CommuteMode `json:"commute_mode" csv:"commute_mode"`
	Employed    bool        `json:"employed" csv:"employed"`
	Studies     bool        `json:"studies" csv:"studies"`

	NumberOfVehicles int `json:"number_of_vehicles" csv:"number_of_vehicles"`
	HouseholdSize    int `json:"household_size" csv:"household_size"`

	WorkOutsideRegion      bool    `json:"work_outside_region" csv:"work_outside_region"`
	EducationOutsideRegion bool    `json:"education_outside_region" csv:"education_outside_region"`
	ConsumptionUnits       float64 `json:"consumption_units" csv:"consumption_units"`

	SocioprofessionalClass int           `json:"socioprofessional_class" csv:"socioprofessional_class"`
	HousingType            HousingType   `json:"housing_type" csv:"housing_type"`
	HouseholdType          HouseholdType `json:"household_type" csv:"household_type"`
	Parking                Parking       `json:"parking" csv:"parking"`
	ConstructionPeriod     string        `json:"achlr" csv:"achlr"`
}

// Household is the household-level projection of a Person, written once per
// household.
type Household struct {
	HouseholdID        int64         `json:"household_id" csv:"household_id"`
	Weight             float64       `json:"weight" csv:"weight"`
	IrisID             string        `json:"iris_id" csv:"iris_id"`
	CommuneID          string        `json:"commune_id" csv:"commune_id"`
	DepartementID      string        `json:"departement_id" csv:"departement_id"`
	NumberOfVehicles   int           `json:"number_of_vehicles" csv:"number_of_vehicles"`
	HouseholdSize      int           `json:"household_size" csv:"household_size"`
	ConsumptionUnits   float64       `json:"consumption_units" csv:"consumption_units"`
	HousingType        HousingType   `json:"housing_type" csv:"housing_type"`
	HouseholdType      HouseholdType `json:"household_type" csv:"household_type"`
	Parking            Parking       `json:"parking" csv:"parking"`
	ConstructionPeriod string        `json:"achlr" csv:"achlr"`
}

// HouseholdOf projects the household-level fields of p.
func HouseholdOf(p Person) Household {
	return Household{
		HouseholdID:        p.HouseholdID,
		Weight:             p.Weight,
		IrisID:             p.IrisID,
		CommuneID:          p.CommuneID,
		DepartementID:      p.DepartementID,
		NumberOfVehicles:   p.NumberOfVehicles,
		HouseholdSize:      p.HouseholdSize,
		ConsumptionUnits:   p.ConsumptionUnits,
		HousingType:        p.HousingType,
		HouseholdType:      p.HouseholdType,
		Parking:            p.Parking,
		ConstructionPeriod: p.ConstructionPeriod,
	}
}
