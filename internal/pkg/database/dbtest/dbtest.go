// Package dbtest starts a migrated Postgres container for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/anicoll/airq/internal/pkg/database"
	"github.com/anicoll/airq/internal/pkg/database/migration"
	"github.com/anicoll/airq/internal/pkg/model"
)

const image = "postgres:16-alpine"

// New returns a Database backed by a fresh container with all migrations applied.
// The test is skipped when no container provider is available.
func New(t *testing.T) *database.Database {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("airq"),
		postgres.WithUsername("airq"),
		postgres.WithPassword("airq"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(dsn, ""))

	db, err := database.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// Reset empties every table.
func Reset(t *testing.T, db *database.Database) {
	t.Helper()
	require.NoError(t, db.Reset(context.Background()))
}

func Sensor(t *testing.T, db *database.Database, name string) model.Sensor {
	t.Helper()
	s, err := db.InsertSensor(context.Background(), model.Sensor{
		Name:             name,
		Model:            "Model-A100",
		InstallationDate: time.Now().UTC().AddDate(0, -1, 0),
		IsActive:         true,
	})
	require.NoError(t, err)
	return *s
}

func Location(t *testing.T, db *database.Database, name string) model.Location {
	t.Helper()
	l, err := db.InsertLocation(context.Background(), model.Location{Name: name})
	require.NoError(t, err)
	return *l
}

// Reading inserts a successful reading at ts with the given metric values.
func Reading(t *testing.T, db *database.Database, sensorID, locationID int64, ts time.Time, humidity, temperature *float64, co2 *int32) model.SensorReading {
	t.Helper()
	ctx := context.Background()
	r, err := db.InsertSensorReading(ctx, model.SensorReading{
		SensorID:    sensorID,
		LocationID:  locationID,
		ReadingTime: ts,
		IsSuccess:   true,
	})
	require.NoError(t, err)
	if humidity != nil {
		_, err = db.InsertHumidityReading(ctx, r.ID, *humidity)
		require.NoError(t, err)
	}
	if temperature != nil {
		_, err = db.InsertTemperatureReading(ctx, r.ID, *temperature)
		require.NoError(t, err)
	}
	if co2 != nil {
		_, err = db.InsertCO2Reading(ctx, r.ID, *co2)
		require.NoError(t, err)
	}
	return *r
}
