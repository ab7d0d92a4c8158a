package database

import (
	"fmt"
	"strings"

	"github.com/anicoll/airq/internal/pkg/model"
)

// filterQuery accumulates joins, predicates and positional arguments.
type filterQuery struct {
	joins      []string
	conditions []string
	args       []any
}

// where appends a predicate whose single placeholder is written as %s.
func (f *filterQuery) where(format string, arg any) {
	f.args = append(f.args, arg)
	f.conditions = append(f.conditions, fmt.Sprintf(format, fmt.Sprintf("$%d", len(f.args))))
}

func (f *filterQuery) join(clause string) {
	f.joins = append(f.joins, clause)
}

// buildFilterQuery turns filter into a reading query. A bound on a metric inner-joins the
// metric table so readings without that metric are excluded.
func buildFilterQuery(filter model.ReadingFilter) (string, []any) {
	f := &filterQuery{}

	if filter.StartDate != nil {
		f.where("r.reading_time >= %s", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		f.where("r.reading_time <= %s", filter.EndDate.UTC())
	}

	if filter.HasCO2Bound() {
		f.join("JOIN co2_readings c ON c.reading_id = r.id")
		if filter.MinCO2Ppm != nil {
			f.where("c.co2_ppm >= %s", *filter.MinCO2Ppm)
		}
		if filter.MaxCO2Ppm != nil {
			f.where("c.co2_ppm <= %s", *filter.MaxCO2Ppm)
		}
	}

	if filter.HasTemperatureBound() {
		f.join("JOIN temperature_readings t ON t.reading_id = r.id")
		if filter.MinTemperatureCelsius != nil {
			f.where("t.temperature_celsius >= %s", *filter.MinTemperatureCelsius)
		}
		if filter.MaxTemperatureCelsius != nil {
			f.where("t.temperature_celsius <= %s", *filter.MaxTemperatureCelsius)
		}
	}

	if filter.HasHumidityBound() {
		f.join("JOIN humidity_readings h ON h.reading_id = r.id")
		if filter.MinHumidityPercentage != nil {
			f.where("h.humidity_percentage >= %s", *filter.MinHumidityPercentage)
		}
		if filter.MaxHumidityPercentage != nil {
			f.where("h.humidity_percentage <= %s", *filter.MaxHumidityPercentage)
		}
	}

	if filter.SensorIDs != nil {
		f.where("r.sensor_id = ANY(%s)", filter.SensorIDs)
	}
	if filter.LocationIDs != nil {
		f.where("r.location_id = ANY(%s)", filter.LocationIDs)
	}

	var sb strings.Builder
	sb.WriteString(selectReadings)
	for _, j := range f.joins {
		sb.WriteString("\n")
		sb.WriteString(j)
	}
	if len(f.conditions) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(f.conditions, "\n  AND "))
	}
	sb.WriteString("\nORDER BY r.id")

	return sb.String(), f.args
}
