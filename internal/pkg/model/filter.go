package model

import "time"

// ReadingFilter narrows a reading query. Every field is optional and a nil field is
// not applied; set fields are combined with AND. Bounds are inclusive.
type ReadingFilter struct {
	StartDate *time.Time
	EndDate   *time.Time

	MinCO2Ppm *int32
	MaxCO2Ppm *int32

	MinTemperatureCelsius *float64
	MaxTemperatureCelsius *float64

	MinHumidityPercentage *float64
	MaxHumidityPercentage *float64

	// A non-nil empty slice matches no reading.
	SensorIDs   []int64
	LocationIDs []int64
}

func (f ReadingFilter) HasCO2Bound() bool {
	return f.MinCO2Ppm != nil || f.MaxCO2Ppm != nil
}

func (f ReadingFilter) HasTemperatureBound() bool {
	return f.MinTemperatureCelsius != nil || f.MaxTemperatureCelsius != nil
}

func (f ReadingFilter) HasHumidityBound() bool {
	return f.MinHumidityPercentage != nil || f.MaxHumidityPercentage != nil
}
