package model

import "time"

type Sensor struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Model            string    `json:"model"`
	InstallationDate time.Time `json:"installation_date"`
	IsActive         bool      `json:"is_active"`
}

type Sensors []Sensor

type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Locations []Location

// SensorLocation assigns a sensor to a location from StartTime until EndTime.
// At most one assignment per sensor is current.
type SensorLocation struct {
	ID         int64      `json:"id"`
	SensorID   int64      `json:"sensor_id"`
	LocationID int64      `json:"location_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	IsCurrent  bool       `json:"is_current"`
}

type SensorLocations []SensorLocation
