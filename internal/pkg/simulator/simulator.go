// Package simulator records synthetic readings for every active, placed sensor on a
// cron schedule.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/model"
)

var ErrSchedule = errors.New("invalid simulator schedule")

type store interface {
	ListSensors(ctx context.Context) (model.Sensors, error)
	CurrentLocation(ctx context.Context, sensorID int64) (*model.Location, error)
	CreateSensorReading(ctx context.Context, in model.NewSensorReading) (*model.SensorReading, error)
}

type publisher interface {
	Publish(ctx context.Context, event model.ReadingEvent)
}

type Simulator struct {
	store     store
	publisher publisher
	rng       *rand.Rand
	logger    *zap.Logger
}

// New returns a simulator. pub may be nil. A zero seed picks a random one.
func New(s store, pub publisher, seed uint64, logger *zap.Logger) *Simulator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Simulator{
		store:     s,
		publisher: pub,
		rng:       rand.New(rand.NewPCG(seed, seed>>1)),
		logger:    logger,
	}
}

// Tick creates one reading per active sensor that has a current location and returns
// how many were created. A sensor whose reading fails is logged and skipped.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	sensors, err := s.store.ListSensors(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sensors: %w", err)
	}
	created := 0
	for _, sensor := range lo.Filter(sensors, func(s model.Sensor, _ int) bool { return s.IsActive }) {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		location, err := s.store.CurrentLocation(ctx, sensor.ID)
		if err != nil {
			s.logger.Warn("current location lookup failed", zap.Int64("sensor_id", sensor.ID), zap.Error(err))
			continue
		}
		if location == nil {
			continue
		}
		in := s.sample(sensor.ID, location.ID)
		reading, err := s.store.CreateSensorReading(ctx, in)
		if err != nil {
			s.logger.Warn("simulated reading failed", zap.Int64("sensor_id", sensor.ID), zap.Error(err))
			continue
		}
		created++
		if s.publisher != nil {
			s.publisher.Publish(ctx, model.NewReadingEvent(*reading, sensor.Name, in))
		}
	}
	return created, nil
}

// Run calls Tick on schedule until ctx is done.
func (s *Simulator) Run(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		n, err := s.Tick(ctx)
		if err != nil {
			s.logger.Error("simulator tick failed", zap.Error(err))
			return
		}
		s.logger.Info("simulated readings", zap.Int("count", n))
	}); err != nil {
		return fmt.Errorf("%w %q: %w", ErrSchedule, schedule, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (s *Simulator) sample(sensorID, locationID int64) model.NewSensorReading {
	return model.NewSensorReading{
		SensorID:           sensorID,
		LocationID:         locationID,
		HumidityPercentage: lo.ToPtr(30 + s.rng.Float64()*40),
		TemperatureCelsius: lo.ToPtr(18 + s.rng.Float64()*12),
		CO2Ppm:             lo.ToPtr(int32(400 + s.rng.IntN(1601))),
	}
}
