package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lixenwraith/chromotherapy/chroma"
	"github.com/lixenwraith/chromotherapy/config"
)

const (
	stateAnimating = "animating"
	stateIdle      = "idle"

	connectTimeout = 5 * time.Second
)

// payload represents the JSON payload which is published for every color
type payload struct {
	R     uint8  `json:"r"`
	G     uint8  `json:"g"`
	B     uint8  `json:"b"`
	Hex   string `json:"hex"`
	State string `json:"state"`
}

// Publisher mirrors the composite color to an MQTT broker
type Publisher struct {
	client mqtt.Client
	topic  string
}

// New connects to the configured MQTT broker
func New(cfg *config.MQTT) (*Publisher, error) {
	options := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(options)
	t := client.Connect()
	if !t.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to %s", cfg.Broker)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Broker, err)
	}

	return NewWithClient(client, cfg.Topic), nil
}

// NewWithClient wraps an already connected client
func NewWithClient(client mqtt.Client, topic string) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
	}
}

// SetBackgroundColor publishes c without waiting for delivery
func (p *Publisher) SetBackgroundColor(c chroma.RGB) error {
	if !p.client.IsConnectionOpen() {
		return fmt.Errorf("mqtt connection to %s is not open", p.topic)
	}

	msg, err := encode(c, stateAnimating)
	if err != nil {
		return err
	}

	// QoS 0: a lost color is superseded 50ms later anyway
	p.client.Publish(p.topic, 0, false, msg)
	return nil
}

// ShowIdle publishes the retained idle state
func (p *Publisher) ShowIdle() {
	p.publishState(stateIdle, chroma.RGBBlack)
}

// ShowAnimating publishes the retained animating state
func (p *Publisher) ShowAnimating() {
	p.publishState(stateAnimating, chroma.RGBBlack)
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) publishState(state string, c chroma.RGB) {
	msg, err := encode(c, state)
	if err != nil {
		log.Printf("MQTT state encode failed: %v", err)
		return
	}

	t := p.client.Publish(p.topic+"/state", 1, true, msg)

	// Check for errors asynchronously
	go func() {
		_ = t.Wait()
		if t.Error() != nil {
			log.Printf("MQTT state publish failed: %v", t.Error())
		}
	}()
}

func encode(c chroma.RGB, state string) ([]byte, error) {
	msg, err := json.Marshal(payload{
		R:     c.R,
		G:     c.G,
		B:     c.B,
		Hex:   c.Hex(),
		State: state,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return msg, nil
}
