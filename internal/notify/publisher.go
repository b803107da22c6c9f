package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ecotrack-lk/backend/internal/models"
)

const alertTopicPrefix = "flood/alerts/"

// Publisher broadcasts issued flood alerts over MQTT so downstream
// consumers (display boards, SMS gateways) can react without polling.
type Publisher struct {
	client mqtt.Client
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(broker, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{client: client}, nil
}

// PublishAlert publishes one alert, retained, on its station topic.
func (p *Publisher) PublishAlert(alert *models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	topic := fmt.Sprintf("%s%d", alertTopicPrefix, alert.StationID)
	token := p.client.Publish(topic, 1, true, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}

	log.WithFields(log.Fields{
		"topic":    topic,
		"severity": alert.Severity,
	}).Info("alert published")
	return nil
}

// Disconnect closes the broker connection.
func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// IsConnected reports the broker connection state.
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}
