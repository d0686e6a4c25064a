// Package mqtt publishes normalized fixes to an MQTT broker as an alternative
// sink to Kafka.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/navfield-etl/internal/config"
	"github.com/couchcryptid/navfield-etl/internal/domain"
)

// disconnectQuiesce is how long Close lets in-flight work finish, in milliseconds.
const disconnectQuiesce = 250

var errPublishTimeout = errors.New("timed out waiting for broker acknowledgement")

// client is the subset of paho.Client the Publisher depends on.
type client interface {
	Publish(topic string, qos byte, retained bool, payload any) paho.Token
	Disconnect(quiesce uint)
}

// Publisher writes fixes to a single MQTT topic.
// It implements pipeline.BatchLoader.
type Publisher struct {
	client   client
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration
	logger   *slog.Logger
}

// NewPublisher connects to the configured broker. Paho reconnects on its own
// after the first successful connect.
func NewPublisher(cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.MQTTTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Warn("mqtt connection lost", "error", err)
		})

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(cfg.MQTTTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, errPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, err)
	}
	logger.Info("connected to mqtt broker", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)

	return newPublisher(c, cfg.MQTTTopic, cfg.MQTTQoS, cfg.MQTTRetained, cfg.MQTTTimeout, logger), nil
}

func newPublisher(c client, topic string, qos byte, retained bool, timeout time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{client: c, topic: topic, qos: qos, retained: retained, timeout: timeout, logger: logger}
}

// LoadBatch publishes each fix and waits for every acknowledgement. The batch
// fails on the first fix that is not acknowledged in time.
func (p *Publisher) LoadBatch(ctx context.Context, fixes []domain.NavFix) error {
	for i := range fixes {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := domain.SerializeNavFix(fixes[i])
		if err != nil {
			return err
		}

		token := p.client.Publish(p.topic, p.qos, p.retained, out.Value)
		if !token.WaitTimeout(p.timeout) {
			return fmt.Errorf("publish fix %s: %w", fixes[i].ID, errPublishTimeout)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish fix %s: %w", fixes[i].ID, err)
		}
	}
	if len(fixes) > 0 {
		p.logger.Debug("published batch", "size", len(fixes), "topic", p.topic)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)
	return nil
}
