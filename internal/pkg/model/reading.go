package model

import "time"

// SensorReading is the parent row of up to one detail row per metric.
type SensorReading struct {
	ID          int64     `json:"id"`
	SensorID    int64     `json:"sensor_id"`
	LocationID  int64     `json:"location_id"`
	ReadingTime time.Time `json:"reading_time"`
	IsSuccess   bool      `json:"is_success"`
}

type SensorReadings []SensorReading

type HumidityReading struct {
	ID                 int64   `json:"id"`
	ReadingID          int64   `json:"reading_id"`
	HumidityPercentage float64 `json:"humidity_percentage"`
}

type TemperatureReading struct {
	ID                 int64   `json:"id"`
	ReadingID          int64   `json:"reading_id"`
	TemperatureCelsius float64 `json:"temperature_celsius"`
}

type CO2Reading struct {
	ID        int64 `json:"id"`
	ReadingID int64 `json:"reading_id"`
	CO2Ppm    int32 `json:"co2_ppm"`
}

type ErrorLog struct {
	ID           int64     `json:"id"`
	ReadingID    int64     `json:"reading_id"`
	CreatedAt    time.Time `json:"created_at"`
	RequestData  *string   `json:"request_data"`
	ResponseData *string   `json:"response_data"`
	ErrorMessage *string   `json:"error_message"`
}

// NewSensorReading is the input of a reading creation. Nil metrics produce no detail row.
type NewSensorReading struct {
	SensorID           int64    `json:"sensor_id"`
	LocationID         int64    `json:"location_id"`
	HumidityPercentage *float64 `json:"humidity_percentage"`
	TemperatureCelsius *float64 `json:"temperature_celsius"`
	CO2Ppm             *int32   `json:"co2_ppm"`
}

// HasMetrics reports whether at least one metric value is set.
func (n NewSensorReading) HasMetrics() bool {
	return n.HumidityPercentage != nil || n.TemperatureCelsius != nil || n.CO2Ppm != nil
}
