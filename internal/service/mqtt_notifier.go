package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
	mqttQuiesceMillis  = 250

	// EventHeatingTriggered is the event name carried in the MQTT payload.
	EventHeatingTriggered = "HEATING_TRIGGERED"
)

// mqttClient is the subset of paho.Client used for publishing.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// MQTTNotifier announces a heating trigger on an MQTT topic so other home
// automation can react to it. It holds no connection between triggers.
type MQTTNotifier struct {
	topic   string
	connect func() (mqttClient, error)
	now     func() time.Time
}

// NewMQTTNotifier does not touch the network; the broker is dialled by Trigger.
func NewMQTTNotifier(broker, clientID, topic string) *MQTTNotifier {
	return &MQTTNotifier{
		topic:   topic,
		connect: func() (mqttClient, error) { return dialMQTT(broker, clientID) },
		now:     time.Now,
	}
}

func dialMQTT(broker, clientID string) (mqttClient, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(false)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("connect to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return client, nil
}

// HeatingPayload is the MQTT message body.
type HeatingPayload struct {
	Heating HeatingEvent `json:"heating"`
}

type HeatingEvent struct {
	Timestamp   string  `json:"timestamp"`
	Event       string  `json:"event"`
	TempCelsius float64 `json:"temp_celsius"`
}

// FormatHeatingPayload builds the JSON message for a trigger at ts.
func FormatHeatingPayload(ts time.Time, celsius float64) ([]byte, error) {
	return json.Marshal(HeatingPayload{
		Heating: HeatingEvent{
			Timestamp:   ts.UTC().Format(time.RFC3339),
			Event:       EventHeatingTriggered,
			TempCelsius: celsius,
		},
	})
}

// Trigger connects, publishes with QoS 1 (not retained) and disconnects.
func (n *MQTTNotifier) Trigger(_ context.Context, celsius float64) error {
	payload, err := FormatHeatingPayload(n.now(), celsius)
	if err != nil {
		return fmt.Errorf("format mqtt payload: %w", err)
	}

	client, err := n.connect()
	if err != nil {
		return err
	}
	defer client.Disconnect(mqttQuiesceMillis)

	token := client.Publish(n.topic, 1, false, payload)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("publish to %s: timeout", n.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", n.topic, err)
	}
	return nil
}
