package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"
	"github.com/samber/lo"

	"github.com/anicoll/airq/internal/pkg/model"
)

func (r *Resolver) Sensors(ctx context.Context) ([]*sensorResolver, error) {
	sensors, err := r.store.ListSensors(ctx)
	if err != nil {
		return nil, err
	}
	return r.sensors(sensors), nil
}

func (r *Resolver) Locations(ctx context.Context) ([]*locationResolver, error) {
	locations, err := r.store.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(locations, func(l model.Location, _ int) *locationResolver {
		return &locationResolver{root: r, l: l}
	}), nil
}

func (r *Resolver) SensorLocations(ctx context.Context) ([]*sensorLocationResolver, error) {
	sls, err := r.store.ListSensorLocations(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(sls, func(sl model.SensorLocation, _ int) *sensorLocationResolver {
		return &sensorLocationResolver{root: r, sl: sl}
	}), nil
}

func (r *Resolver) SensorReadings(ctx context.Context) ([]*readingResolver, error) {
	readings, err := r.store.ListSensorReadings(ctx)
	if err != nil {
		return nil, err
	}
	return r.readings(readings), nil
}

func (r *Resolver) HumidityReadings(ctx context.Context) ([]*humidityResolver, error) {
	hs, err := r.store.ListHumidityReadings(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(hs, func(h model.HumidityReading, _ int) *humidityResolver {
		return &humidityResolver{root: r, h: h}
	}), nil
}

func (r *Resolver) TemperatureReadings(ctx context.Context) ([]*temperatureResolver, error) {
	ts, err := r.store.ListTemperatureReadings(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(ts, func(t model.TemperatureReading, _ int) *temperatureResolver {
		return &temperatureResolver{root: r, t: t}
	}), nil
}

func (r *Resolver) CO2Readings(ctx context.Context) ([]*co2Resolver, error) {
	cs, err := r.store.ListCO2Readings(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(cs, func(c model.CO2Reading, _ int) *co2Resolver {
		return &co2Resolver{root: r, c: c}
	}), nil
}

func (r *Resolver) ErrorLogs(ctx context.Context) ([]*errorLogResolver, error) {
	es, err := r.store.ListErrorLogs(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(es, func(e model.ErrorLog, _ int) *errorLogResolver {
		return &errorLogResolver{root: r, e: e}
	}), nil
}

type idArgs struct {
	ID int32
}

func (r *Resolver) Sensor(ctx context.Context, args idArgs) (*sensorResolver, error) {
	return r.sensorByID(ctx, int64(args.ID))
}

func (r *Resolver) Location(ctx context.Context, args idArgs) (*locationResolver, error) {
	return r.locationByID(ctx, int64(args.ID))
}

type readingFilterInput struct {
	StartDate             *graphql.Time
	EndDate               *graphql.Time
	MinCo2Ppm             *int32
	MaxCo2Ppm             *int32
	MinTemperatureCelsius *float64
	MaxTemperatureCelsius *float64
	MinHumidityPercentage *float64
	MaxHumidityPercentage *float64
	SensorIds             *[]int32
	LocationIds           *[]int32
}

func (in *readingFilterInput) toFilter() model.ReadingFilter {
	if in == nil {
		return model.ReadingFilter{}
	}
	f := model.ReadingFilter{
		MinCO2Ppm:             in.MinCo2Ppm,
		MaxCO2Ppm:             in.MaxCo2Ppm,
		MinTemperatureCelsius: in.MinTemperatureCelsius,
		MaxTemperatureCelsius: in.MaxTemperatureCelsius,
		MinHumidityPercentage: in.MinHumidityPercentage,
		MaxHumidityPercentage: in.MaxHumidityPercentage,
	}
	if in.StartDate != nil {
		f.StartDate = &in.StartDate.Time
	}
	if in.EndDate != nil {
		f.EndDate = &in.EndDate.Time
	}
	if in.SensorIds != nil {
		f.SensorIDs = toInt64s(*in.SensorIds)
	}
	if in.LocationIds != nil {
		f.LocationIDs = toInt64s(*in.LocationIds)
	}
	return f
}

func toInt64s(ids []int32) []int64 {
	return lo.Map(ids, func(id int32, _ int) int64 { return int64(id) })
}

func (r *Resolver) FilteredReadings(ctx context.Context, args struct{ Filter *readingFilterInput }) ([]*readingResolver, error) {
	readings, err := r.store.FilterReadings(ctx, args.Filter.toFilter())
	if err != nil {
		return nil, err
	}
	return r.readings(readings), nil
}
