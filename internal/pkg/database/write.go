package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/anicoll/airq/internal/pkg/model"
)

// CreateSensorReading inserts a reading and one detail row per supplied metric in a
// single transaction. Nothing is persisted when any insert fails.
func (q *Queries) CreateSensorReading(ctx context.Context, in model.NewSensorReading) (*model.SensorReading, error) {
	var created model.SensorReading
	err := q.InTx(ctx, func(tx *Queries) error {
		reading, err := tx.InsertSensorReading(ctx, model.SensorReading{
			SensorID:    in.SensorID,
			LocationID:  in.LocationID,
			ReadingTime: time.Now().UTC(),
			IsSuccess:   true,
		})
		if err != nil {
			return err
		}
		if in.HumidityPercentage != nil {
			if _, err := tx.InsertHumidityReading(ctx, reading.ID, *in.HumidityPercentage); err != nil {
				return err
			}
		}
		if in.TemperatureCelsius != nil {
			if _, err := tx.InsertTemperatureReading(ctx, reading.ID, *in.TemperatureCelsius); err != nil {
				return err
			}
		}
		if in.CO2Ppm != nil {
			if _, err := tx.InsertCO2Reading(ctx, reading.ID, *in.CO2Ppm); err != nil {
				return err
			}
		}
		created = *reading
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create sensor reading: %w", err)
	}
	return &created, nil
}

func (q *Queries) InsertSensorReading(ctx context.Context, r model.SensorReading) (*model.SensorReading, error) {
	const insertSQL = `
	INSERT INTO sensor_readings AS r (sensor_id, location_id, reading_time, is_success)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + readingColumns

	return insertOne(ctx, q.db, scanReading, "sensor reading", insertSQL, r.SensorID, r.LocationID, r.ReadingTime, r.IsSuccess)
}

func (q *Queries) InsertHumidityReading(ctx context.Context, readingID int64, percentage float64) (*model.HumidityReading, error) {
	const insertSQL = `
	INSERT INTO humidity_readings AS h (reading_id, humidity_percentage)
	VALUES ($1, $2)
	RETURNING ` + humidityColumns

	return insertOne(ctx, q.db, scanHumidity, "humidity reading", insertSQL, readingID, percentage)
}

func (q *Queries) InsertTemperatureReading(ctx context.Context, readingID int64, celsius float64) (*model.TemperatureReading, error) {
	const insertSQL = `
	INSERT INTO temperature_readings AS t (reading_id, temperature_celsius)
	VALUES ($1, $2)
	RETURNING ` + temperatureColumns

	return insertOne(ctx, q.db, scanTemperature, "temperature reading", insertSQL, readingID, celsius)
}

func (q *Queries) InsertCO2Reading(ctx context.Context, readingID int64, ppm int32) (*model.CO2Reading, error) {
	const insertSQL = `
	INSERT INTO co2_readings AS c (reading_id, co2_ppm)
	VALUES ($1, $2)
	RETURNING ` + co2Columns

	return insertOne(ctx, q.db, scanCO2, "co2 reading", insertSQL, readingID, ppm)
}

func (q *Queries) InsertErrorLog(ctx context.Context, e model.ErrorLog) (*model.ErrorLog, error) {
	const insertSQL = `
	INSERT INTO error_logs AS e (reading_id, request_data, response_data, error_message)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + errorLogColumns

	return insertOne(ctx, q.db, scanErrorLog, "error log", insertSQL, e.ReadingID, e.RequestData, e.ResponseData, e.ErrorMessage)
}

func (q *Queries) InsertSensor(ctx context.Context, s model.Sensor) (*model.Sensor, error) {
	const insertSQL = `
	INSERT INTO sensors AS s (name, model, installation_date, is_active)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + sensorColumns

	return insertOne(ctx, q.db, scanSensor, "sensor", insertSQL, s.Name, s.Model, s.InstallationDate, s.IsActive)
}

func (q *Queries) InsertLocation(ctx context.Context, l model.Location) (*model.Location, error) {
	const insertSQL = `
	INSERT INTO locations AS l (name, description)
	VALUES ($1, $2)
	RETURNING ` + locationColumns

	return insertOne(ctx, q.db, scanLocation, "location", insertSQL, l.Name, l.Description)
}

// AssignSensor makes locationID the current location of sensorID from start on. A previous
// current assignment of the sensor is closed at start in the same transaction.
func (q *Queries) AssignSensor(ctx context.Context, sensorID, locationID int64, start time.Time) (*model.SensorLocation, error) {
	const closeSQL = `
	UPDATE sensor_locations
	SET is_current = FALSE, end_time = $2
	WHERE sensor_id = $1 AND is_current
	`
	const insertSQL = `
	INSERT INTO sensor_locations AS sl (sensor_id, location_id, start_time, end_time, is_current)
	VALUES ($1, $2, $3, NULL, TRUE)
	RETURNING ` + sensorLocationColumns

	var assigned *model.SensorLocation
	err := q.InTx(ctx, func(tx *Queries) error {
		if _, err := tx.db.Exec(ctx, closeSQL, sensorID, start); err != nil {
			return classify(fmt.Errorf("close current assignment: %w", err))
		}
		var err error
		assigned, err = insertOne(ctx, tx.db, scanSensorLocation, "sensor location", insertSQL, sensorID, locationID, start)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("assign sensor %d to location %d: %w", sensorID, locationID, err)
	}
	return assigned, nil
}

// InsertSensorLocation stores a finished assignment; it never becomes current.
func (q *Queries) InsertSensorLocation(ctx context.Context, sl model.SensorLocation) (*model.SensorLocation, error) {
	const insertSQL = `
	INSERT INTO sensor_locations AS sl (sensor_id, location_id, start_time, end_time, is_current)
	VALUES ($1, $2, $3, $4, FALSE)
	RETURNING ` + sensorLocationColumns

	return insertOne(ctx, q.db, scanSensorLocation, "sensor location", insertSQL, sl.SensorID, sl.LocationID, sl.StartTime, sl.EndTime)
}

// Reset empties every table and restarts the id sequences.
func (q *Queries) Reset(ctx context.Context) error {
	const truncateSQL = `
	TRUNCATE error_logs, co2_readings, temperature_readings, humidity_readings,
		sensor_readings, sensor_locations, sensors, locations
	RESTART IDENTITY
	`
	if _, err := q.db.Exec(ctx, truncateSQL); err != nil {
		return fmt.Errorf("reset tables: %w", err)
	}
	return nil
}

func insertOne[T any](ctx context.Context, db DBTX, scan pgx.RowToFunc[T], what, query string, args ...any) (*T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("insert %s: %w", what, err))
	}
	v, err := pgx.CollectExactlyOneRow(rows, scan)
	if err != nil {
		return nil, classify(fmt.Errorf("insert %s: %w", what, err))
	}
	return &v, nil
}
