// Package seed fills the database with synthetic sensors, locations, assignments and
// readings for development.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/database"
	"github.com/anicoll/airq/internal/pkg/model"
)

var errorMessages = []string{"Sensor offline", "Reading out of range", "Communication error"}

type Options struct {
	Sensors           int
	Locations         int
	ReadingsPerSensor int
	// Reset truncates every table before seeding.
	Reset bool
	// Seed makes the generated data reproducible when non-zero.
	Seed uint64
}

// DefaultOptions returns the sizes used by the seed command when no flags are given.
func DefaultOptions() Options {
	return Options{Sensors: 5, Locations: 3, ReadingsPerSensor: 50, Reset: true}
}

// Summary counts the rows written by Run.
type Summary struct {
	Sensors      int
	Locations    int
	Assignments  int
	Readings     int
	Humidity     int
	Temperature  int
	CO2          int
	ErrorLogs    int
	SkippedRows  int
	FailedGroups int
}

type seeder struct {
	rng    *rand.Rand
	now    time.Time
	logger *zap.Logger
	sum    Summary
}

// Run seeds the database in a single transaction. Each group of rows runs in its own
// savepoint and each detail row in a nested one, so a failing row or group is logged and
// skipped without discarding the rest.
func Run(ctx context.Context, q *database.Queries, opts Options, logger *zap.Logger) (Summary, error) {
	if opts.Locations < 1 && opts.Sensors > 0 {
		return Summary{}, fmt.Errorf("seed: at least one location is required for %d sensors", opts.Sensors)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &seeder{
		rng:    rand.New(rand.NewPCG(seed, seed>>1)),
		now:    time.Now().UTC(),
		logger: logger,
	}

	err := q.InTx(ctx, func(tx *database.Queries) error {
		if opts.Reset {
			if err := tx.Reset(ctx); err != nil {
				return err
			}
			logger.Info("cleared existing data")
		}

		sensors, err := s.createSensors(ctx, tx, opts.Sensors)
		if err != nil {
			return err
		}
		locations, err := s.createLocations(ctx, tx, opts.Locations)
		if err != nil {
			return err
		}
		s.group(ctx, tx, "sensor locations", func(g *database.Queries) error {
			return s.createAssignments(ctx, g, sensors, locations)
		})

		var readings []model.SensorReading
		s.group(ctx, tx, "sensor readings", func(g *database.Queries) error {
			readings, err = s.createReadings(ctx, g, sensors, locations, opts.ReadingsPerSensor)
			return err
		})
		successful := lo.Filter(readings, func(r model.SensorReading, _ int) bool { return r.IsSuccess })
		failed := lo.Reject(readings, func(r model.SensorReading, _ int) bool { return r.IsSuccess })

		s.group(ctx, tx, "humidity readings", func(g *database.Queries) error {
			s.sum.Humidity = s.eachRow(ctx, g, "humidity reading", successful, func(r *database.Queries, sr model.SensorReading) error {
				_, err := r.InsertHumidityReading(ctx, sr.ID, s.uniform(30, 70))
				return err
			})
			return nil
		})
		s.group(ctx, tx, "temperature readings", func(g *database.Queries) error {
			s.sum.Temperature = s.eachRow(ctx, g, "temperature reading", successful, func(r *database.Queries, sr model.SensorReading) error {
				_, err := r.InsertTemperatureReading(ctx, sr.ID, s.uniform(18, 30))
				return err
			})
			return nil
		})
		s.group(ctx, tx, "co2 readings", func(g *database.Queries) error {
			s.sum.CO2 = s.eachRow(ctx, g, "co2 reading", successful, func(r *database.Queries, sr model.SensorReading) error {
				_, err := r.InsertCO2Reading(ctx, sr.ID, int32(400+s.rng.IntN(1601)))
				return err
			})
			return nil
		})
		s.group(ctx, tx, "error logs", func(g *database.Queries) error {
			s.sum.ErrorLogs = s.eachRow(ctx, g, "error log", failed, func(r *database.Queries, sr model.SensorReading) error {
				_, err := r.InsertErrorLog(ctx, model.ErrorLog{
					ReadingID:    sr.ID,
					RequestData:  lo.ToPtr("Sample request data"),
					ResponseData: lo.ToPtr("Sample error response"),
					ErrorMessage: lo.ToPtr(s.pick(errorMessages)),
				})
				return err
			})
			return nil
		})
		return ctx.Err()
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seed: %w", err)
	}
	logger.Info("database seeded",
		zap.Int("sensors", s.sum.Sensors),
		zap.Int("locations", s.sum.Locations),
		zap.Int("assignments", s.sum.Assignments),
		zap.Int("readings", s.sum.Readings),
		zap.Int("humidity", s.sum.Humidity),
		zap.Int("temperature", s.sum.Temperature),
		zap.Int("co2", s.sum.CO2),
		zap.Int("error_logs", s.sum.ErrorLogs),
		zap.Int("skipped_rows", s.sum.SkippedRows),
		zap.Int("failed_groups", s.sum.FailedGroups))
	return s.sum, nil
}

// group runs fn in a savepoint. A failure rolls back only that savepoint.
func (s *seeder) group(ctx context.Context, tx *database.Queries, name string, fn func(*database.Queries) error) {
	before := s.sum
	if err := tx.InTx(ctx, fn); err != nil {
		s.logger.Error("seeding group failed", zap.String("group", name), zap.Error(err))
		s.sum = before
		s.sum.FailedGroups++
	}
}

// eachRow inserts one row per reading, each in its own savepoint, and returns the number
// of rows written.
func (s *seeder) eachRow(ctx context.Context, tx *database.Queries, what string, readings []model.SensorReading, insert func(*database.Queries, model.SensorReading) error) int {
	n := 0
	for _, sr := range readings {
		err := tx.InTx(ctx, func(row *database.Queries) error {
			return insert(row, sr)
		})
		if err != nil {
			s.logger.Warn("skipped row", zap.String("row", what), zap.Int64("reading_id", sr.ID), zap.Error(err))
			s.sum.SkippedRows++
			continue
		}
		n++
	}
	return n
}

func (s *seeder) createSensors(ctx context.Context, tx *database.Queries, n int) ([]model.Sensor, error) {
	sensors := make([]model.Sensor, 0, n)
	for i := range n {
		created, err := tx.InsertSensor(ctx, model.Sensor{
			Name:             fmt.Sprintf("Sensor %d", i+1),
			Model:            fmt.Sprintf("Model-%c%d", 'A'+rune(s.rng.IntN(3)), 100+s.rng.IntN(900)),
			InstallationDate: s.now.AddDate(0, 0, -(1 + s.rng.IntN(365))),
			IsActive:         s.rng.IntN(2) == 0,
		})
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, *created)
	}
	s.sum.Sensors = len(sensors)
	return sensors, nil
}

func (s *seeder) createLocations(ctx context.Context, tx *database.Queries, n int) ([]model.Location, error) {
	locations := make([]model.Location, 0, n)
	for i := range n {
		created, err := tx.InsertLocation(ctx, model.Location{
			Name:        fmt.Sprintf("Room %d", i+1),
			Description: lo.ToPtr(fmt.Sprintf("Description for Room %d", i+1)),
		})
		if err != nil {
			return nil, err
		}
		locations = append(locations, *created)
	}
	s.sum.Locations = len(locations)
	return locations, nil
}

// createAssignments gives every sensor a chronological history of up to len(locations)
// assignments within the last 30 days. Only the last one is current.
func (s *seeder) createAssignments(ctx context.Context, tx *database.Queries, sensors []model.Sensor, locations []model.Location) error {
	n := 0
	for _, sensor := range sensors {
		history := lo.Map(locations, func(l model.Location, _ int) int64 { return l.ID })
		s.rng.Shuffle(len(history), func(i, j int) { history[i], history[j] = history[j], history[i] })
		history = history[:1+s.rng.IntN(len(history))]

		start := s.now.AddDate(0, 0, -(15 + s.rng.IntN(16)))
		for i, locationID := range history {
			if i == len(history)-1 {
				if _, err := tx.AssignSensor(ctx, sensor.ID, locationID, start); err != nil {
					return err
				}
				n++
				break
			}
			end := start.Add(time.Duration(1+s.rng.IntN(7*24)) * time.Hour)
			if _, err := tx.InsertSensorLocation(ctx, model.SensorLocation{
				SensorID:   sensor.ID,
				LocationID: locationID,
				StartTime:  start,
				EndTime:    &end,
			}); err != nil {
				return err
			}
			n++
			start = end
		}
	}
	s.sum.Assignments = n
	return nil
}

func (s *seeder) createReadings(ctx context.Context, tx *database.Queries, sensors []model.Sensor, locations []model.Location, perSensor int) ([]model.SensorReading, error) {
	readings := make([]model.SensorReading, 0, len(sensors)*perSensor)
	for _, sensor := range sensors {
		for range perSensor {
			created, err := tx.InsertSensorReading(ctx, model.SensorReading{
				SensorID:    sensor.ID,
				LocationID:  locations[s.rng.IntN(len(locations))].ID,
				ReadingTime: s.now.Add(-time.Duration(1+s.rng.IntN(10000)) * time.Minute),
				IsSuccess:   s.rng.IntN(4) != 0,
			})
			if err != nil {
				return nil, err
			}
			readings = append(readings, *created)
		}
	}
	s.sum.Readings = len(readings)
	return readings, nil
}

func (s *seeder) uniform(from, to float64) float64 {
	return from + s.rng.Float64()*(to-from)
}

func (s *seeder) pick(items []string) string {
	return items[s.rng.IntN(len(items))]
}
