package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/model"
)

var deviceClasses = map[model.Metric]string{
	model.MetricHumidity:    "humidity",
	model.MetricTemperature: "temperature",
	model.MetricCO2:         "carbon_dioxide",
}

// Write publishes one state message per metric of the event. The discovery config of a
// sensor metric is published once, before its first state.
func (s *service) Write(ctx context.Context, event model.ReadingEvent) error {
	for _, metric := range model.Metrics {
		value, ok := event.Values[metric]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.register(event, metric); err != nil {
			return fmt.Errorf("register %s of sensor %d: %w", metric, event.SensorID, err)
		}
		if err := s.publishState(event, metric, value); err != nil {
			return fmt.Errorf("publish %s of sensor %d: %w", metric, event.SensorID, err)
		}
	}
	return nil
}

func (s *service) register(event model.ReadingEvent, metric model.Metric) error {
	base := s.baseTopic(event, metric)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.configured[base]; exists {
		return nil
	}

	payload, err := json.Marshal(registerMessage(event, metric, base))
	if err != nil {
		return err
	}
	if err := s.publish(base+"/config", true, payload); err != nil {
		return err
	}
	s.configured[base] = struct{}{}
	s.logger.Info("configured sensor", zap.String("sensor", identifier(event)), zap.Stringer("metric", metric))
	return nil
}

func (s *service) publishState(event model.ReadingEvent, metric model.Metric, value float64) error {
	payload, err := json.Marshal(model.StateMessage{
		Value:             strconv.FormatFloat(value, 'f', -1, 64),
		UnitOfMeasurement: string(model.MetricUnits[metric]),
	})
	if err != nil {
		return err
	}
	return s.publish(s.baseTopic(event, metric)+"/state", false, payload)
}

func (s *service) publish(topic string, retained bool, payload []byte) error {
	token := s.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(time.Second * 10) {
		return fmt.Errorf("publish to %s: %w", topic, ErrPublishTimeout)
	}
	return token.Error()
}

func (s *service) baseTopic(event model.ReadingEvent, metric model.Metric) string {
	return fmt.Sprintf("%s/%s/%s", s.prefix, identifier(event), metric)
}

func identifier(event model.ReadingEvent) string {
	name := slug.Make(event.SensorName)
	if name == "" {
		name = "sensor"
	}
	return fmt.Sprintf("%s_%d", name, event.SensorID)
}

func registerMessage(event model.ReadingEvent, metric model.Metric, base string) model.RegisterMessage {
	id := identifier(event)
	deviceName := event.SensorName
	if deviceName == "" {
		deviceName = id
	}
	return model.RegisterMessage{
		Tilda:             base,
		Name:              fmt.Sprintf("%s %s", deviceName, metric),
		ID:                fmt.Sprintf("%s_%s", id, metric),
		StateTopic:        "~/state",
		ValueTemplate:     "{{ value_json.value }}",
		UnitOfMeasurement: string(model.MetricUnits[metric]),
		DeviceClass:       deviceClasses[metric],
		Device: model.RegisterDevice{
			Name:         deviceName,
			Identifiers:  []string{id},
			Model:        "airq sensor",
			Manufacturer: "airq",
		},
	}
}
