package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/airq/internal/pkg/database/dbtest"
	"github.com/anicoll/airq/internal/pkg/model"
	"github.com/anicoll/airq/internal/pkg/seed"
)

func TestRun(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	opts := seed.Options{Sensors: 4, Locations: 3, ReadingsPerSensor: 20, Reset: true, Seed: 42}
	sum, err := seed.Run(ctx, db.Queries, opts, logger)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Sensors)
	assert.Equal(t, 3, sum.Locations)
	assert.Equal(t, 80, sum.Readings)
	assert.Zero(t, sum.SkippedRows)
	assert.Zero(t, sum.FailedGroups)

	t.Run("sensors and locations", func(t *testing.T) {
		sensors, err := db.ListSensors(ctx)
		require.NoError(t, err)
		require.Len(t, sensors, 4)
		for i, s := range sensors {
			assert.Equal(t, "Sensor "+string(rune('1'+i)), s.Name)
			assert.Regexp(t, `^Model-[ABC][1-9]\d\d$`, s.Model)
			assert.True(t, s.InstallationDate.Before(time.Now()))
		}

		locations, err := db.ListLocations(ctx)
		require.NoError(t, err)
		require.Len(t, locations, 3)
		assert.Equal(t, "Room 2", locations[1].Name)
		assert.Equal(t, "Description for Room 2", *locations[1].Description)
	})

	t.Run("every sensor has exactly one current assignment", func(t *testing.T) {
		sls, err := db.ListSensorLocations(ctx)
		require.NoError(t, err)
		assert.Len(t, sls, sum.Assignments)

		current := lo.CountValuesBy(lo.Filter(sls, func(sl model.SensorLocation, _ int) bool { return sl.IsCurrent }),
			func(sl model.SensorLocation) int64 { return sl.SensorID })
		assert.Len(t, current, 4)
		for sensorID, n := range current {
			assert.Equal(t, 1, n, "sensor %d", sensorID)
		}
		for _, sl := range sls {
			if sl.IsCurrent {
				assert.Nil(t, sl.EndTime)
				continue
			}
			require.NotNil(t, sl.EndTime)
			assert.True(t, sl.EndTime.After(sl.StartTime))
		}
	})

	t.Run("metrics exist only for successful readings", func(t *testing.T) {
		readings, err := db.ListSensorReadings(ctx)
		require.NoError(t, err)
		require.Len(t, readings, 80)

		successful := lo.CountBy(readings, func(r model.SensorReading) bool { return r.IsSuccess })
		assert.Equal(t, successful, sum.Humidity)
		assert.Equal(t, successful, sum.Temperature)
		assert.Equal(t, successful, sum.CO2)
		assert.Equal(t, len(readings)-successful, sum.ErrorLogs)

		week := time.Now().Add(-7 * 24 * time.Hour)
		for _, r := range readings {
			assert.True(t, r.ReadingTime.After(week), "reading %d at %s", r.ID, r.ReadingTime)
			h, err := db.HumidityByReading(ctx, r.ID)
			require.NoError(t, err)
			if !r.IsSuccess {
				assert.Nil(t, h)
				continue
			}
			require.NotNil(t, h)
			assert.GreaterOrEqual(t, h.HumidityPercentage, 30.0)
			assert.LessOrEqual(t, h.HumidityPercentage, 70.0)
		}

		co2, err := db.ListCO2Readings(ctx)
		require.NoError(t, err)
		for _, c := range co2 {
			assert.GreaterOrEqual(t, c.CO2Ppm, int32(400))
			assert.LessOrEqual(t, c.CO2Ppm, int32(2000))
		}

		logs, err := db.ListErrorLogs(ctx)
		require.NoError(t, err)
		for _, e := range logs {
			require.NotNil(t, e.ErrorMessage)
			assert.Contains(t, []string{"Sensor offline", "Reading out of range", "Communication error"}, *e.ErrorMessage)
		}
	})

	t.Run("reset replaces existing data", func(t *testing.T) {
		_, err := seed.Run(ctx, db.Queries, opts, logger)
		require.NoError(t, err)

		sensors, err := db.ListSensors(ctx)
		require.NoError(t, err)
		assert.Len(t, sensors, 4)
		assert.Equal(t, int64(1), sensors[0].ID)
	})

	t.Run("without reset data is appended", func(t *testing.T) {
		more := opts
		more.Reset = false
		_, err := seed.Run(ctx, db.Queries, more, logger)
		require.NoError(t, err)

		sensors, err := db.ListSensors(ctx)
		require.NoError(t, err)
		assert.Len(t, sensors, 8)
	})
}

func TestDefaultOptions(t *testing.T) {
	opts := seed.DefaultOptions()
	assert.Equal(t, seed.Options{Sensors: 5, Locations: 3, ReadingsPerSensor: 50, Reset: true}, opts)
}

func TestRun_RequiresLocations(t *testing.T) {
	_, err := seed.Run(context.Background(), nil, seed.Options{Sensors: 1}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
