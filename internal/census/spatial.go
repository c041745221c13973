package census

import (
	"sort"
	"strings"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// CodeSet is the reference the emitted spatial codes are checked against.
// *spatial.Codes implements it.
type CodeSet interface {
	HasCommune(code string) bool
	HasIris(code string) bool
}

// ResolveSpatial derives the IRIS, commune and département of a raw record.
// The commune is the first five characters of the IRIS code.
func ResolveSpatial(raw model.RawRecord) (iris, commune, departement string) {
	iris = raw.Iris
	if strings.ContainsAny(iris, "ZX") {
		iris = model.Undefined
	}

	commune = raw.Iris
	if len(commune) > 5 {
		commune = commune[:5]
	}
	if strings.Contains(commune, "Z") {
		commune = model.Undefined
	}

	return iris, commune, raw.Departement
}

// ValidateSpatial checks that every commune and IRIS code is either in codes
// or undefined. Communes are checked first.
func ValidateSpatial(persons []model.Person, codes CodeSet) error {
	if unknown := unknownCodes(persons, func(p model.Person) string { return p.CommuneID }, codes.HasCommune); len(unknown) > 0 {
		return &UnknownCodesError{Level: "commune", Codes: unknown}
	}
	if unknown := unknownCodes(persons, func(p model.Person) string { return p.IrisID }, codes.HasIris); len(unknown) > 0 {
		return &UnknownCodesError{Level: "iris", Codes: unknown}
	}
	return nil
}

func unknownCodes(persons []model.Person, field func(model.Person) string, known func(string) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range persons {
		code := field(p)
		if code == model.Undefined || known(code) {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
