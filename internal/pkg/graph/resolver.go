// Package graph exposes the sensor store over GraphQL. Every object type has its own
// resolver whose derived fields are computed on demand from the store.
package graph

import (
	"context"
	_ "embed"
	"strconv"
	"time"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/model"
)

//go:embed schema.graphql
var schemaSDL string

type store interface {
	GetSensor(ctx context.Context, id int64) (*model.Sensor, error)
	GetLocation(ctx context.Context, id int64) (*model.Location, error)
	GetSensorReading(ctx context.Context, id int64) (*model.SensorReading, error)

	ListSensors(ctx context.Context) (model.Sensors, error)
	ListLocations(ctx context.Context) (model.Locations, error)
	ListSensorLocations(ctx context.Context) (model.SensorLocations, error)
	ListSensorReadings(ctx context.Context) (model.SensorReadings, error)
	ListHumidityReadings(ctx context.Context) ([]model.HumidityReading, error)
	ListTemperatureReadings(ctx context.Context) ([]model.TemperatureReading, error)
	ListCO2Readings(ctx context.Context) ([]model.CO2Reading, error)
	ListErrorLogs(ctx context.Context) ([]model.ErrorLog, error)

	ReadingsBySensor(ctx context.Context, sensorID int64) (model.SensorReadings, error)
	ReadingsByLocation(ctx context.Context, locationID int64) (model.SensorReadings, error)
	HumidityByReading(ctx context.Context, readingID int64) (*model.HumidityReading, error)
	TemperatureByReading(ctx context.Context, readingID int64) (*model.TemperatureReading, error)
	CO2ByReading(ctx context.Context, readingID int64) (*model.CO2Reading, error)
	CurrentLocation(ctx context.Context, sensorID int64) (*model.Location, error)
	CurrentSensors(ctx context.Context, locationID int64) (model.Sensors, error)
	LastReading(ctx context.Context, sensorID int64) (*model.SensorReading, error)
	FilterReadings(ctx context.Context, filter model.ReadingFilter) (model.SensorReadings, error)

	CreateSensorReading(ctx context.Context, in model.NewSensorReading) (*model.SensorReading, error)
}

type publisher interface {
	Publish(ctx context.Context, event model.ReadingEvent)
}

// Resolver is the root of both the query and the mutation type.
type Resolver struct {
	store     store
	publisher publisher
	logger    *zap.Logger
}

// New returns the root resolver. pub may be nil.
func New(s store, pub publisher) *Resolver {
	return &Resolver{
		store:     s,
		publisher: pub,
		logger:    zap.L(),
	}
}

// NewSchema parses the schema and binds it to r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r, graphql.MaxDepth(12))
}

func toID(id int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(id, 10))
}

func toTime(t *time.Time) *graphql.Time {
	if t == nil {
		return nil
	}
	return &graphql.Time{Time: *t}
}
