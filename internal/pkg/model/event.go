package model

import "time"

type Metric string

func (m Metric) String() string {
	return string(m)
}

const (
	MetricHumidity    Metric = "humidity"
	MetricTemperature Metric = "temperature"
	MetricCO2         Metric = "co2"
)

type Unit string

const (
	UnitPercent       Unit = "%"
	UnitDegreeCelsius Unit = "°C"
	UnitPartsPerMil   Unit = "ppm"
)

// Metrics lists every metric in publishing order.
var Metrics = []Metric{MetricHumidity, MetricTemperature, MetricCO2}

// MetricUnits maps each metric to the unit it is recorded in.
var MetricUnits = map[Metric]Unit{
	MetricHumidity:    UnitPercent,
	MetricTemperature: UnitDegreeCelsius,
	MetricCO2:         UnitPartsPerMil,
}

// ReadingEvent is emitted once a reading and its metrics are committed.
type ReadingEvent struct {
	ReadingID   int64
	SensorID    int64
	SensorName  string
	LocationID  int64
	ReadingTime time.Time
	Values      map[Metric]float64
}

// NewReadingEvent builds the event for a committed reading from its input values.
func NewReadingEvent(reading SensorReading, sensorName string, in NewSensorReading) ReadingEvent {
	values := make(map[Metric]float64, 3)
	if in.HumidityPercentage != nil {
		values[MetricHumidity] = *in.HumidityPercentage
	}
	if in.TemperatureCelsius != nil {
		values[MetricTemperature] = *in.TemperatureCelsius
	}
	if in.CO2Ppm != nil {
		values[MetricCO2] = float64(*in.CO2Ppm)
	}
	return ReadingEvent{
		ReadingID:   reading.ID,
		SensorID:    reading.SensorID,
		SensorName:  sensorName,
		LocationID:  reading.LocationID,
		ReadingTime: reading.ReadingTime,
		Values:      values,
	}
}
