package model

type RegisterDevice struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// RegisterMessage is the Home Assistant discovery payload of one sensor metric.
type RegisterMessage struct {
	Tilda             string         `json:"~"`
	Name              string         `json:"name"`
	ID                string         `json:"unique_id"`
	StateTopic        string         `json:"state_topic"`
	ValueTemplate     string         `json:"value_template"`
	UnitOfMeasurement string         `json:"unit_of_measurement"`
	DeviceClass       string         `json:"device_class,omitempty"`
	Device            RegisterDevice `json:"device"`
}

// StateMessage is published on a metric's state topic.
type StateMessage struct {
	Value             string `json:"value"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
}
