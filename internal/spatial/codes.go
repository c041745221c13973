// Package spatial provides the authoritative set of commune and IRIS codes the
// census transform validates against.
package spatial

import (
	"sort"
	"strings"
)

// Reference is one row of a spatial reference table.
type Reference struct {
	IrisID        string
	CommuneID     string
	DepartementID string
}

// Codes holds the distinct valid identifiers of a spatial reference table.
type Codes struct {
	communes     map[string]struct{}
	iris         map[string]struct{}
	departements map[string]struct{}
}

// NewCodes collects the distinct codes of the given rows. Empty values are
// ignored. A missing departement is derived from the commune.
func NewCodes(rows []Reference) *Codes {
	c := &Codes{
		communes:     make(map[string]struct{}),
		iris:         make(map[string]struct{}),
		departements: make(map[string]struct{}),
	}
	for _, r := range rows {
		iris := strings.TrimSpace(r.IrisID)
		commune := strings.TrimSpace(r.CommuneID)
		dep := strings.TrimSpace(r.DepartementID)
		if commune == "" && len(iris) >= 5 {
			commune = iris[:5]
		}
		if dep == "" {
			dep = DepartementOf(commune)
		}
		if iris != "" {
			c.iris[iris] = struct{}{}
		}
		if commune != "" {
			c.communes[commune] = struct{}{}
		}
		if dep != "" {
			c.departements[dep] = struct{}{}
		}
	}
	return c
}

// DepartementOf returns the département prefix of a commune code: three
// characters for overseas communes (97x), two otherwise.
func DepartementOf(commune string) string {
	switch {
	case strings.HasPrefix(commune, "97") && len(commune) >= 3:
		return commune[:3]
	case len(commune) >= 2:
		return commune[:2]
	default:
		return ""
	}
}

// HasCommune reports whether code is a valid commune.
func (c *Codes) HasCommune(code string) bool {
	_, ok := c.communes[code]
	return ok
}

// HasIris reports whether code is a valid IRIS.
func (c *Codes) HasIris(code string) bool {
	_, ok := c.iris[code]
	return ok
}

// Communes returns the sorted commune codes.
func (c *Codes) Communes() []string { return sortedKeys(c.communes) }

// Iris returns the sorted IRIS codes.
func (c *Codes) Iris() []string { return sortedKeys(c.iris) }

// Departements returns the sorted département codes.
func (c *Codes) Departements() []string { return sortedKeys(c.departements) }

// Len returns the number of IRIS codes.
func (c *Codes) Len() int { return len(c.iris) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FilterDepartements keeps the rows whose département is in deps. An empty
// deps list keeps every row.
func FilterDepartements(rows []Reference, deps []string) []Reference {
	if len(deps) == 0 {
		return rows
	}
	keep := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		keep[strings.TrimSpace(d)] = struct{}{}
	}

	out := make([]Reference, 0, len(rows))
	for _, r := range rows {
		dep := r.DepartementID
		if dep == "" {
			dep = DepartementOf(r.CommuneID)
		}
		if _, ok := keep[dep]; ok {
			out = append(out, r)
		}
	}
	return out
}
