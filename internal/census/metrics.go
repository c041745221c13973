package census

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lvmt-matsim/ile-de-france/internal/model"
)

// Metrics tracks the outcome of census cleaning runs. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	PersonsProcessed    prometheus.Counter
	HouseholdsProcessed prometheus.Counter
	UnknownCodes        *prometheus.CounterVec
	MissingValues       *prometheus.CounterVec
	CleanDuration       prometheus.Histogram
}

// NewMetrics registers the census metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PersonsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "idf_census_persons_total",
			Help: "Persons emitted by the census cleaning stage",
		}),
		HouseholdsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "idf_census_households_total",
			Help: "Distinct households emitted by the census cleaning stage",
		}),
		UnknownCodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idf_census_unknown_spatial_codes_total",
			Help: "Spatial codes absent from the reference set, by level",
		}, []string{"level"}),
		MissingValues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idf_census_missing_values_total",
			Help: "Categorical values left missing after recoding, by field",
		}, []string{"field"}),
		CleanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "idf_census_clean_duration_seconds",
			Help:    "Duration of the census cleaning transform",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// ObserveTable records person, household and missing-value counts.
func (m *Metrics) ObserveTable(t *Table) {
	if m == nil {
		return
	}
	m.PersonsProcessed.Add(float64(len(t.Persons)))
	m.HouseholdsProcessed.Add(float64(t.HouseholdCount()))

	missing := map[string]int{}
	for _, p := range t.Persons {
		if p.Sex == model.SexMissing {
			missing["sex"]++
		}
		if p.CommuteMode == model.CommuteMissing {
			missing["commute_mode"]++
		}
		if p.HousingType == model.HousingMissing {
			missing["housing_type"]++
		}
		if p.HouseholdType == model.HouseholdMissing {
			missing["household_type"]++
		}
		if p.Parking == model.ParkingMissing {
			missing["parking"]++
		}
	}
	for field, n := range missing {
		m.MissingValues.WithLabelValues(field).Add(float64(n))
	}
}

// ObserveUnknownCodes records a failed spatial validation.
func (m *Metrics) ObserveUnknownCodes(e *UnknownCodesError) {
	if m == nil {
		return
	}
	m.UnknownCodes.WithLabelValues(e.Level).Add(float64(len(e.Codes)))
}

// ObserveClean records the duration of a Clean call started at start.
func (m *Metrics) ObserveClean(start time.Time) {
	if m == nil {
		return
	}
	m.CleanDuration.Observe(time.Since(start).Seconds())
}
