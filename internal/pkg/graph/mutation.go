package graph

import (
	"context"

	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/model"
)

type createSensorReadingInput struct {
	SensorID           int32
	LocationID         int32
	HumidityPercentage *float64
	TemperatureCelsius *float64
	Co2Ppm             *int32
}

type createSensorReadingPayload struct {
	reading *readingResolver
}

func (p *createSensorReadingPayload) SensorReading() *readingResolver {
	return p.reading
}

// CreateSensorReading stores a successful reading with its metrics and publishes
// the committed values. A failed publish does not fail the mutation.
func (r *Resolver) CreateSensorReading(ctx context.Context, args struct{ Input createSensorReadingInput }) (*createSensorReadingPayload, error) {
	in := model.NewSensorReading{
		SensorID:           int64(args.Input.SensorID),
		LocationID:         int64(args.Input.LocationID),
		HumidityPercentage: args.Input.HumidityPercentage,
		TemperatureCelsius: args.Input.TemperatureCelsius,
		CO2Ppm:             args.Input.Co2Ppm,
	}
	reading, err := r.store.CreateSensorReading(ctx, in)
	if err != nil {
		r.logger.Warn("create sensor reading failed",
			zap.Int64("sensor_id", in.SensorID),
			zap.Int64("location_id", in.LocationID),
			zap.Error(err))
		return nil, err
	}
	r.publish(ctx, *reading, in)
	return &createSensorReadingPayload{reading: &readingResolver{root: r, sr: *reading}}, nil
}

func (r *Resolver) publish(ctx context.Context, reading model.SensorReading, in model.NewSensorReading) {
	if r.publisher == nil || !in.HasMetrics() {
		return
	}
	var name string
	sensor, err := r.store.GetSensor(ctx, reading.SensorID)
	if err != nil {
		r.logger.Warn("sensor lookup for reading event failed", zap.Int64("reading_id", reading.ID), zap.Error(err))
	}
	if sensor != nil {
		name = sensor.Name
	}
	r.publisher.Publish(ctx, model.NewReadingEvent(reading, name, in))
}
