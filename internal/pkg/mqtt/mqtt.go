package mqtt

import (
	"errors"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/config"
)

var (
	ErrConnectTimeout = errors.New("unable to connect in time")
	ErrPublishTimeout = errors.New("publish not acknowledged in time")
)

type service struct {
	client paho_mqtt.Client
	prefix string
	logger *zap.Logger

	mu         sync.Mutex
	configured map[string]struct{}
}

func New(client paho_mqtt.Client, topicPrefix string, logger *zap.Logger) *service {
	return &service{
		client:     client,
		prefix:     topicPrefix,
		logger:     logger,
		configured: make(map[string]struct{}),
	}
}

// NewClient builds a paho client for the configured broker. The client is not connected.
func NewClient(cfg config.MQTTConfig) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Host).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	return paho_mqtt.NewClient(opts)
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if err := token.Error(); err != nil {
		return err
	}
	if res {
		return nil
	}
	return ErrConnectTimeout
}

func (s *service) Disconnect() {
	s.client.Disconnect(250)
}
