package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/anicoll/airq/internal/pkg/model"
)

const (
	sensorColumns         = `s.id, s.name, s.model, s.installation_date, s.is_active`
	locationColumns       = `l.id, l.name, l.description`
	sensorLocationColumns = `sl.id, sl.sensor_id, sl.location_id, sl.start_time, sl.end_time, sl.is_current`
	readingColumns        = `r.id, r.sensor_id, r.location_id, r.reading_time, r.is_success`
	humidityColumns       = `h.id, h.reading_id, h.humidity_percentage`
	temperatureColumns    = `t.id, t.reading_id, t.temperature_celsius`
	co2Columns            = `c.id, c.reading_id, c.co2_ppm`
	errorLogColumns       = `e.id, e.reading_id, e.created_at, e.request_data, e.response_data, e.error_message`
	selectSensors         = `SELECT ` + sensorColumns + ` FROM sensors s`
	selectLocations       = `SELECT ` + locationColumns + ` FROM locations l`
	selectSensorLocations = `SELECT ` + sensorLocationColumns + ` FROM sensor_locations sl`
	selectReadings        = `SELECT ` + readingColumns + ` FROM sensor_readings r`
	selectHumidity        = `SELECT ` + humidityColumns + ` FROM humidity_readings h`
	selectTemperature     = `SELECT ` + temperatureColumns + ` FROM temperature_readings t`
	selectCO2             = `SELECT ` + co2Columns + ` FROM co2_readings c`
	selectErrorLogs       = `SELECT ` + errorLogColumns + ` FROM error_logs e`
)

func scanSensor(row pgx.CollectableRow) (model.Sensor, error) {
	var s model.Sensor
	err := row.Scan(&s.ID, &s.Name, &s.Model, &s.InstallationDate, &s.IsActive)
	return s, err
}

func scanLocation(row pgx.CollectableRow) (model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Name, &l.Description)
	return l, err
}

func scanSensorLocation(row pgx.CollectableRow) (model.SensorLocation, error) {
	var sl model.SensorLocation
	err := row.Scan(&sl.ID, &sl.SensorID, &sl.LocationID, &sl.StartTime, &sl.EndTime, &sl.IsCurrent)
	return sl, err
}

func scanReading(row pgx.CollectableRow) (model.SensorReading, error) {
	var r model.SensorReading
	err := row.Scan(&r.ID, &r.SensorID, &r.LocationID, &r.ReadingTime, &r.IsSuccess)
	return r, err
}

func scanHumidity(row pgx.CollectableRow) (model.HumidityReading, error) {
	var h model.HumidityReading
	err := row.Scan(&h.ID, &h.ReadingID, &h.HumidityPercentage)
	return h, err
}

func scanTemperature(row pgx.CollectableRow) (model.TemperatureReading, error) {
	var t model.TemperatureReading
	err := row.Scan(&t.ID, &t.ReadingID, &t.TemperatureCelsius)
	return t, err
}

func scanCO2(row pgx.CollectableRow) (model.CO2Reading, error) {
	var c model.CO2Reading
	err := row.Scan(&c.ID, &c.ReadingID, &c.CO2Ppm)
	return c, err
}

func scanErrorLog(row pgx.CollectableRow) (model.ErrorLog, error) {
	var e model.ErrorLog
	err := row.Scan(&e.ID, &e.ReadingID, &e.CreatedAt, &e.RequestData, &e.ResponseData, &e.ErrorMessage)
	return e, err
}

// queryAll runs query and collects every row with scan.
func queryAll[T any](ctx context.Context, db DBTX, scan pgx.RowToFunc[T], query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}

// queryOne returns nil without an error when query yields no row.
func queryOne[T any](ctx context.Context, db DBTX, scan pgx.RowToFunc[T], query string, args ...any) (*T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	v, err := pgx.CollectExactlyOneRow(rows, scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (q *Queries) GetSensor(ctx context.Context, id int64) (*model.Sensor, error) {
	s, err := queryOne(ctx, q.db, scanSensor, selectSensors+` WHERE s.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get sensor %d: %w", id, err)
	}
	return s, nil
}

func (q *Queries) GetLocation(ctx context.Context, id int64) (*model.Location, error) {
	l, err := queryOne(ctx, q.db, scanLocation, selectLocations+` WHERE l.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get location %d: %w", id, err)
	}
	return l, nil
}

func (q *Queries) GetSensorReading(ctx context.Context, id int64) (*model.SensorReading, error) {
	r, err := queryOne(ctx, q.db, scanReading, selectReadings+` WHERE r.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get sensor reading %d: %w", id, err)
	}
	return r, nil
}

func (q *Queries) ListSensors(ctx context.Context) (model.Sensors, error) {
	sensors, err := queryAll(ctx, q.db, scanSensor, selectSensors+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sensors: %w", err)
	}
	return sensors, nil
}

func (q *Queries) ListLocations(ctx context.Context) (model.Locations, error) {
	locations, err := queryAll(ctx, q.db, scanLocation, selectLocations+` ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (q *Queries) ListSensorLocations(ctx context.Context) (model.SensorLocations, error) {
	sls, err := queryAll(ctx, q.db, scanSensorLocation, selectSensorLocations+` ORDER BY sl.id`)
	if err != nil {
		return nil, fmt.Errorf("list sensor locations: %w", err)
	}
	return sls, nil
}

func (q *Queries) ListSensorReadings(ctx context.Context) (model.SensorReadings, error) {
	readings, err := queryAll(ctx, q.db, scanReading, selectReadings+` ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("list sensor readings: %w", err)
	}
	return readings, nil
}

func (q *Queries) ListHumidityReadings(ctx context.Context) ([]model.HumidityReading, error) {
	hs, err := queryAll(ctx, q.db, scanHumidity, selectHumidity+` ORDER BY h.id`)
	if err != nil {
		return nil, fmt.Errorf("list humidity readings: %w", err)
	}
	return hs, nil
}

func (q *Queries) ListTemperatureReadings(ctx context.Context) ([]model.TemperatureReading, error) {
	ts, err := queryAll(ctx, q.db, scanTemperature, selectTemperature+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list temperature readings: %w", err)
	}
	return ts, nil
}

func (q *Queries) ListCO2Readings(ctx context.Context) ([]model.CO2Reading, error) {
	cs, err := queryAll(ctx, q.db, scanCO2, selectCO2+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list co2 readings: %w", err)
	}
	return cs, nil
}

func (q *Queries) ListErrorLogs(ctx context.Context) ([]model.ErrorLog, error) {
	es, err := queryAll(ctx, q.db, scanErrorLog, selectErrorLogs+` ORDER BY e.id`)
	if err != nil {
		return nil, fmt.Errorf("list error logs: %w", err)
	}
	return es, nil
}

func (q *Queries) ReadingsBySensor(ctx context.Context, sensorID int64) (model.SensorReadings, error) {
	readings, err := queryAll(ctx, q.db, scanReading, selectReadings+` WHERE r.sensor_id = $1 ORDER BY r.id`, sensorID)
	if err != nil {
		return nil, fmt.Errorf("readings of sensor %d: %w", sensorID, err)
	}
	return readings, nil
}

func (q *Queries) ReadingsByLocation(ctx context.Context, locationID int64) (model.SensorReadings, error) {
	readings, err := queryAll(ctx, q.db, scanReading, selectReadings+` WHERE r.location_id = $1 ORDER BY r.id`, locationID)
	if err != nil {
		return nil, fmt.Errorf("readings at location %d: %w", locationID, err)
	}
	return readings, nil
}

func (q *Queries) HumidityByReading(ctx context.Context, readingID int64) (*model.HumidityReading, error) {
	h, err := queryOne(ctx, q.db, scanHumidity, selectHumidity+` WHERE h.reading_id = $1`, readingID)
	if err != nil {
		return nil, fmt.Errorf("humidity of reading %d: %w", readingID, err)
	}
	return h, nil
}

func (q *Queries) TemperatureByReading(ctx context.Context, readingID int64) (*model.TemperatureReading, error) {
	t, err := queryOne(ctx, q.db, scanTemperature, selectTemperature+` WHERE t.reading_id = $1`, readingID)
	if err != nil {
		return nil, fmt.Errorf("temperature of reading %d: %w", readingID, err)
	}
	return t, nil
}

func (q *Queries) CO2ByReading(ctx context.Context, readingID int64) (*model.CO2Reading, error) {
	c, err := queryOne(ctx, q.db, scanCO2, selectCO2+` WHERE c.reading_id = $1`, readingID)
	if err != nil {
		return nil, fmt.Errorf("co2 of reading %d: %w", readingID, err)
	}
	return c, nil
}

// CurrentLocation returns the location of the sensor's current assignment, or nil.
func (q *Queries) CurrentLocation(ctx context.Context, sensorID int64) (*model.Location, error) {
	// uq_sensor_locations_current allows one current row; the ordering only settles rows that predate it.
	const query = selectLocations + `
	JOIN sensor_locations sl ON sl.location_id = l.id
	WHERE sl.sensor_id = $1 AND sl.is_current
	ORDER BY sl.id
	LIMIT 1`

	l, err := queryOne(ctx, q.db, scanLocation, query, sensorID)
	if err != nil {
		return nil, fmt.Errorf("current location of sensor %d: %w", sensorID, err)
	}
	return l, nil
}

// CurrentSensors returns the sensors currently assigned to the location.
func (q *Queries) CurrentSensors(ctx context.Context, locationID int64) (model.Sensors, error) {
	const query = selectSensors + `
	WHERE s.id IN (
		SELECT sl.sensor_id FROM sensor_locations sl
		WHERE sl.location_id = $1 AND sl.is_current
	)
	ORDER BY s.id`

	sensors, err := queryAll(ctx, q.db, scanSensor, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("current sensors at location %d: %w", locationID, err)
	}
	return sensors, nil
}

// LastReading returns the sensor's reading with the latest reading time, or nil.
func (q *Queries) LastReading(ctx context.Context, sensorID int64) (*model.SensorReading, error) {
	const query = selectReadings + `
	WHERE r.sensor_id = $1
	ORDER BY r.reading_time DESC, r.id DESC
	LIMIT 1`

	r, err := queryOne(ctx, q.db, scanReading, query, sensorID)
	if err != nil {
		return nil, fmt.Errorf("last reading of sensor %d: %w", sensorID, err)
	}
	return r, nil
}

// FilterReadings returns the readings matching every predicate set on filter.
func (q *Queries) FilterReadings(ctx context.Context, filter model.ReadingFilter) (model.SensorReadings, error) {
	query, args := buildFilterQuery(filter)
	readings, err := queryAll(ctx, q.db, scanReading, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter readings: %w", err)
	}
	return readings, nil
}
