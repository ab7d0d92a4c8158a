package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"github.com/samber/lo"

	"github.com/anicoll/airq/internal/pkg/model"
)

func (r *Resolver) sensors(sensors []model.Sensor) []*sensorResolver {
	return lo.Map(sensors, func(s model.Sensor, _ int) *sensorResolver {
		return &sensorResolver{root: r, s: s}
	})
}

func (r *Resolver) readings(readings []model.SensorReading) []*readingResolver {
	return lo.Map(readings, func(sr model.SensorReading, _ int) *readingResolver {
		return &readingResolver{root: r, sr: sr}
	})
}

func (r *Resolver) sensorByID(ctx context.Context, id int64) (*sensorResolver, error) {
	s, err := r.store.GetSensor(ctx, id)
	if err != nil || s == nil {
		return nil, err
	}
	return &sensorResolver{root: r, s: *s}, nil
}

func (r *Resolver) locationByID(ctx context.Context, id int64) (*locationResolver, error) {
	l, err := r.store.GetLocation(ctx, id)
	if err != nil || l == nil {
		return nil, err
	}
	return &locationResolver{root: r, l: *l}, nil
}

func (r *Resolver) readingByID(ctx context.Context, id int64) (*readingResolver, error) {
	sr, err := r.store.GetSensorReading(ctx, id)
	if err != nil || sr == nil {
		return nil, err
	}
	return &readingResolver{root: r, sr: *sr}, nil
}

type sensorResolver struct {
	root *Resolver
	s    model.Sensor
}

func (r *sensorResolver) ID() graphql.ID                 { return toID(r.s.ID) }
func (r *sensorResolver) Name() string                   { return r.s.Name }
func (r *sensorResolver) Model() string                  { return r.s.Model }
func (r *sensorResolver) InstallationDate() graphql.Time { return graphql.Time{Time: r.s.InstallationDate} }
func (r *sensorResolver) IsActive() bool                 { return r.s.IsActive }

func (r *sensorResolver) Readings(ctx context.Context) ([]*readingResolver, error) {
	readings, err := r.root.store.ReadingsBySensor(ctx, r.s.ID)
	if err != nil {
		return nil, err
	}
	return r.root.readings(readings), nil
}

func (r *sensorResolver) CurrentLocation(ctx context.Context) (*locationResolver, error) {
	l, err := r.root.store.CurrentLocation(ctx, r.s.ID)
	if err != nil || l == nil {
		return nil, err
	}
	return &locationResolver{root: r.root, l: *l}, nil
}

func (r *sensorResolver) LastReading(ctx context.Context) (*readingResolver, error) {
	sr, err := r.root.store.LastReading(ctx, r.s.ID)
	if err != nil || sr == nil {
		return nil, err
	}
	return &readingResolver{root: r.root, sr: *sr}, nil
}

type locationResolver struct {
	root *Resolver
	l    model.Location
}

func (r *locationResolver) ID() graphql.ID       { return toID(r.l.ID) }
func (r *locationResolver) Name() string         { return r.l.Name }
func (r *locationResolver) Description() *string { return r.l.Description }

func (r *locationResolver) Readings(ctx context.Context) ([]*readingResolver, error) {
	readings, err := r.root.store.ReadingsByLocation(ctx, r.l.ID)
	if err != nil {
		return nil, err
	}
	return r.root.readings(readings), nil
}

func (r *locationResolver) CurrentSensors(ctx context.Context) ([]*sensorResolver, error) {
	sensors, err := r.root.store.CurrentSensors(ctx, r.l.ID)
	if err != nil {
		return nil, err
	}
	return r.root.sensors(sensors), nil
}

type sensorLocationResolver struct {
	root *Resolver
	sl   model.SensorLocation
}

func (r *sensorLocationResolver) ID() graphql.ID          { return toID(r.sl.ID) }
func (r *sensorLocationResolver) SensorID() int32         { return int32(r.sl.SensorID) }
func (r *sensorLocationResolver) LocationID() int32       { return int32(r.sl.LocationID) }
func (r *sensorLocationResolver) StartTime() graphql.Time { return graphql.Time{Time: r.sl.StartTime} }
func (r *sensorLocationResolver) EndTime() *graphql.Time  { return toTime(r.sl.EndTime) }
func (r *sensorLocationResolver) IsCurrent() bool         { return r.sl.IsCurrent }

func (r *sensorLocationResolver) Sensor(ctx context.Context) (*sensorResolver, error) {
	return r.root.sensorByID(ctx, r.sl.SensorID)
}

func (r *sensorLocationResolver) Location(ctx context.Context) (*locationResolver, error) {
	return r.root.locationByID(ctx, r.sl.LocationID)
}

type readingResolver struct {
	root *Resolver
	sr   model.SensorReading
}

func (r *readingResolver) ID() graphql.ID            { return toID(r.sr.ID) }
func (r *readingResolver) SensorID() int32           { return int32(r.sr.SensorID) }
func (r *readingResolver) LocationID() int32         { return int32(r.sr.LocationID) }
func (r *readingResolver) ReadingTime() graphql.Time { return graphql.Time{Time: r.sr.ReadingTime} }
func (r *readingResolver) IsSuccess() bool           { return r.sr.IsSuccess }

func (r *readingResolver) Sensor(ctx context.Context) (*sensorResolver, error) {
	return r.root.sensorByID(ctx, r.sr.SensorID)
}

func (r *readingResolver) Location(ctx context.Context) (*locationResolver, error) {
	return r.root.locationByID(ctx, r.sr.LocationID)
}

func (r *readingResolver) HumidityReading(ctx context.Context) (*humidityResolver, error) {
	h, err := r.root.store.HumidityByReading(ctx, r.sr.ID)
	if err != nil || h == nil {
		return nil, err
	}
	return &humidityResolver{root: r.root, h: *h}, nil
}

func (r *readingResolver) TemperatureReading(ctx context.Context) (*temperatureResolver, error) {
	t, err := r.root.store.TemperatureByReading(ctx, r.sr.ID)
	if err != nil || t == nil {
		return nil, err
	}
	return &temperatureResolver{root: r.root, t: *t}, nil
}

func (r *readingResolver) CO2Reading(ctx context.Context) (*co2Resolver, error) {
	c, err := r.root.store.CO2ByReading(ctx, r.sr.ID)
	if err != nil || c == nil {
		return nil, err
	}
	return &co2Resolver{root: r.root, c: *c}, nil
}

type humidityResolver struct {
	root *Resolver
	h    model.HumidityReading
}

func (r *humidityResolver) ID() graphql.ID              { return toID(r.h.ID) }
func (r *humidityResolver) ReadingID() int32            { return int32(r.h.ReadingID) }
func (r *humidityResolver) HumidityPercentage() float64 { return r.h.HumidityPercentage }

func (r *humidityResolver) SensorReading(ctx context.Context) (*readingResolver, error) {
	return r.root.readingByID(ctx, r.h.ReadingID)
}

type temperatureResolver struct {
	root *Resolver
	t    model.TemperatureReading
}

func (r *temperatureResolver) ID() graphql.ID              { return toID(r.t.ID) }
func (r *temperatureResolver) ReadingID() int32            { return int32(r.t.ReadingID) }
func (r *temperatureResolver) TemperatureCelsius() float64 { return r.t.TemperatureCelsius }

func (r *temperatureResolver) SensorReading(ctx context.Context) (*readingResolver, error) {
	return r.root.readingByID(ctx, r.t.ReadingID)
}

type co2Resolver struct {
	root *Resolver
	c    model.CO2Reading
}

func (r *co2Resolver) ID() graphql.ID   { return toID(r.c.ID) }
func (r *co2Resolver) ReadingID() int32 { return int32(r.c.ReadingID) }
func (r *co2Resolver) CO2Ppm() int32    { return r.c.CO2Ppm }

func (r *co2Resolver) SensorReading(ctx context.Context) (*readingResolver, error) {
	return r.root.readingByID(ctx, r.c.ReadingID)
}

type errorLogResolver struct {
	root *Resolver
	e    model.ErrorLog
}

func (r *errorLogResolver) ID() graphql.ID          { return toID(r.e.ID) }
func (r *errorLogResolver) ReadingID() int32        { return int32(r.e.ReadingID) }
func (r *errorLogResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.e.CreatedAt} }
func (r *errorLogResolver) RequestData() *string    { return r.e.RequestData }
func (r *errorLogResolver) ResponseData() *string   { return r.e.ResponseData }
func (r *errorLogResolver) ErrorMessage() *string   { return r.e.ErrorMessage }

func (r *errorLogResolver) SensorReading(ctx context.Context) (*readingResolver, error) {
	return r.root.readingByID(ctx, r.e.ReadingID)
}
