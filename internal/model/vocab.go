package model

// Categorical vocabularies of the cleaned census. The zero value of each type is
// the missing variant and renders as an empty cell.

// Sex of a person.
type Sex string

const (
	SexMissing Sex = ""
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
)

// CommuteMode is the main transport mode used to reach work or school.
type CommuteMode string

const (
	CommuteMissing CommuteMode = ""
	CommuteWalk    CommuteMode = "walk"
	CommuteBike    CommuteMode = "bike"
	CommuteCar     CommuteMode = "car"
	CommutePT      CommuteMode = "pt"
)

// HousingType is the kind of dwelling a household lives in.
type HousingType string

const (
	HousingMissing HousingType = ""
	HousingHouse   HousingType = "house"
	HousingFlat    HousingType = "flat"
	HousingOthers  HousingType = "others"
)

// HouseholdType is the family structure of a household.
type HouseholdType string

const (
	HouseholdMissing            HouseholdType = ""
	HouseholdSingleMan          HouseholdType = "SM"
	HouseholdSingleWoman        HouseholdType = "SW"
	HouseholdMonoparentalFather HouseholdType = "MFF"
	HouseholdMonoparentalMother HouseholdType = "MFM"
	HouseholdCoupleNoChildren   HouseholdType = "CWOC"
	HouseholdCoupleWithChildren HouseholdType = "CWC"
	HouseholdOthers             HouseholdType = "others"
)

// Parking tells whether the dwelling has a dedicated parking space.
type Parking string

const (
	ParkingMissing   Parking = ""
	ParkingNone      Parking = "0"
	ParkingAvailable Parking = "1"
)

// Valid reports whether s is one of the defined sexes (missing excluded).
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Valid reports whether m is one of the defined commute modes (missing excluded).
func (m CommuteMode) Valid() bool {
	switch m {
	case CommuteWalk, CommuteBike, CommuteCar, CommutePT:
		return true
	}
	return false
}

// Valid reports whether h is one of the defined housing types (missing excluded).
func (h HousingType) Valid() bool {
	switch h {
	case HousingHouse, HousingFlat, HousingOthers:
		return true
	}
	return false
}

// Valid reports whether h is one of the defined household types (missing excluded).
func (h HouseholdType) Valid() bool {
	switch h {
	case HouseholdSingleMan, HouseholdSingleWoman,
		HouseholdMonoparentalFather, HouseholdMonoparentalMother,
		HouseholdCoupleNoChildren, HouseholdCoupleWithChildren,
		HouseholdOthers:
		return true
	}
	return false
}

// Valid reports whether p is 0 or 1.
func (p Parking) Valid() bool {
	return p == ParkingNone || p == ParkingAvailable
}
