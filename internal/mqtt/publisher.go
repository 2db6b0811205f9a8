package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/petroplus2966/petroplus-menu-board/internal/display"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher mirrors display updates to an MQTT broker so secondary
// screens or dashboards can follow the board without polling the API.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	enabled     bool
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Println("MQTT connected")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		enabled:     true,
	}, nil
}

// Publish sends the region topics plus the retained full snapshot.
func (p *Publisher) Publish(snap display.Snapshot) error {
	if !p.enabled {
		return nil
	}

	topics := map[string]string{
		"ticker":  snap.TickerText,
		"promo":   snap.PromoURL,
		"weather": snap.WeatherGlyph + " " + snap.WeatherTempText + " " + snap.WeatherLabel,
		"clock":   snap.TimeText,
	}

	for name, value := range topics {
		topic := fmt.Sprintf("%s/%s", p.topicPrefix, name)
		token := p.client.Publish(topic, 0, false, value)
		token.Wait()
		if token.Error() != nil {
			log.Printf("Failed to publish to %s: %v", topic, token.Error())
		}
	}

	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	stateTopic := fmt.Sprintf("%s/state", p.topicPrefix)
	token := p.client.Publish(stateTopic, 0, true, stateJSON)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish state: %w", token.Error())
	}

	return nil
}

// Follow consumes snapshots from the channel until it closes,
// publishing each one.
func (p *Publisher) Follow(updates <-chan display.Snapshot) {
	for snap := range updates {
		if err := p.Publish(snap); err != nil {
			log.Printf("Error publishing display state: %v", err)
		}
	}
}

func (p *Publisher) IsConnected() bool {
	if !p.enabled {
		return false
	}
	return p.client.IsConnected()
}

func (p *Publisher) Close() {
	if p.enabled && p.client != nil {
		p.client.Disconnect(1000)
	}
}
