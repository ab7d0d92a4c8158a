package simulator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/airq/internal/pkg/model"
)

type mockStore struct {
	ListSensorsFunc         func(ctx context.Context) (model.Sensors, error)
	CurrentLocationFunc     func(ctx context.Context, sensorID int64) (*model.Location, error)
	CreateSensorReadingFunc func(ctx context.Context, in model.NewSensorReading) (*model.SensorReading, error)

	mu      sync.Mutex
	created []model.NewSensorReading
}

func (m *mockStore) ListSensors(ctx context.Context) (model.Sensors, error) {
	if m.ListSensorsFunc != nil {
		return m.ListSensorsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) CurrentLocation(ctx context.Context, sensorID int64) (*model.Location, error) {
	if m.CurrentLocationFunc != nil {
		return m.CurrentLocationFunc(ctx, sensorID)
	}
	return nil, nil
}

func (m *mockStore) CreateSensorReading(ctx context.Context, in model.NewSensorReading) (*model.SensorReading, error) {
	m.mu.Lock()
	m.created = append(m.created, in)
	n := len(m.created)
	m.mu.Unlock()
	if m.CreateSensorReadingFunc != nil {
		return m.CreateSensorReadingFunc(ctx, in)
	}
	return &model.SensorReading{ID: int64(n), SensorID: in.SensorID, LocationID: in.LocationID, ReadingTime: time.Now(), IsSuccess: true}, nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []model.ReadingEvent
}

func (m *mockPublisher) Publish(_ context.Context, event model.ReadingEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func sensors() model.Sensors {
	return model.Sensors{
		{ID: 1, Name: "Sensor 1", IsActive: true},
		{ID: 2, Name: "Sensor 2", IsActive: false},
		{ID: 3, Name: "Sensor 3", IsActive: true},
		{ID: 4, Name: "Sensor 4", IsActive: true},
	}
}

// Sensor 4 has no current location.
func placed(_ context.Context, sensorID int64) (*model.Location, error) {
	switch sensorID {
	case 1, 2:
		return &model.Location{ID: 10}, nil
	case 3:
		return &model.Location{ID: 30}, nil
	}
	return nil, nil
}

func TestTick(t *testing.T) {
	store := &mockStore{
		ListSensorsFunc:     func(context.Context) (model.Sensors, error) { return sensors(), nil },
		CurrentLocationFunc: placed,
	}
	pub := &mockPublisher{}
	sim := New(store, pub, 7, zaptest.NewLogger(t))

	n, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, store.created, 2)
	assert.Equal(t, int64(1), store.created[0].SensorID)
	assert.Equal(t, int64(10), store.created[0].LocationID)
	assert.Equal(t, int64(3), store.created[1].SensorID)
	assert.Equal(t, int64(30), store.created[1].LocationID)
	for _, in := range store.created {
		require.True(t, in.HasMetrics())
		assert.InDelta(t, 50, *in.HumidityPercentage, 20)
		assert.InDelta(t, 24, *in.TemperatureCelsius, 6)
		assert.GreaterOrEqual(t, *in.CO2Ppm, int32(400))
		assert.LessOrEqual(t, *in.CO2Ppm, int32(2000))
	}

	require.Len(t, pub.events, 2)
	assert.Equal(t, "Sensor 3", pub.events[1].SensorName)
	assert.Len(t, pub.events[1].Values, 3)
}

func TestTick_SkipsFailedSensors(t *testing.T) {
	store := &mockStore{
		ListSensorsFunc: func(context.Context) (model.Sensors, error) { return sensors(), nil },
		CurrentLocationFunc: func(ctx context.Context, sensorID int64) (*model.Location, error) {
			if sensorID == 1 {
				return nil, errors.New("connection reset")
			}
			return placed(ctx, sensorID)
		},
		CreateSensorReadingFunc: func(_ context.Context, in model.NewSensorReading) (*model.SensorReading, error) {
			return nil, errors.New("constraint violation")
		},
	}
	pub := &mockPublisher{}
	sim := New(store, pub, 7, zaptest.NewLogger(t))

	n, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.created, 1)
	assert.Empty(t, pub.events)
}

func TestTick_ListError(t *testing.T) {
	store := &mockStore{
		ListSensorsFunc: func(context.Context) (model.Sensors, error) { return nil, errors.New("db down") },
	}
	_, err := New(store, nil, 7, zaptest.NewLogger(t)).Tick(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestTick_WithoutPublisher(t *testing.T) {
	store := &mockStore{
		ListSensorsFunc:     func(context.Context) (model.Sensors, error) { return sensors(), nil },
		CurrentLocationFunc: placed,
	}
	n, err := New(store, nil, 7, zaptest.NewLogger(t)).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun(t *testing.T) {
	ticked := make(chan struct{}, 1)
	store := &mockStore{
		ListSensorsFunc: func(context.Context) (model.Sensors, error) {
			select {
			case ticked <- struct{}{}:
			default:
			}
			return nil, nil
		},
	}
	sim := New(store, nil, 7, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx, "@every 1s") }()

	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not tick")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("simulator did not stop")
	}
}

func TestRun_InvalidSchedule(t *testing.T) {
	err := New(&mockStore{}, nil, 7, zaptest.NewLogger(t)).Run(context.Background(), "every now and then")
	assert.ErrorIs(t, err, ErrSchedule)
}
