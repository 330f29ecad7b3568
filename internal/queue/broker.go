package queue

import (
	"errors"
	"fmt"

	"skill-bridge/internal/config"

	"github.com/streadway/amqp"
)

var ErrQueueDisabled = errors.New("message queue not configured")

// Broker owns the AMQP connection. Channels are opened per role because an
// amqp.Channel must not be shared between a consumer and publishers.
type Broker struct {
	conn *amqp.Connection
	cfg  config.QueueConfig
}

func Dial(cfg config.QueueConfig) (*Broker, error) {
	if cfg.RabbitMQURL == "" {
		return nil, ErrQueueDisabled
	}
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return &Broker{conn: conn, cfg: cfg}, nil
}

func (b *Broker) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

// Channel opens a channel with the analysis queue and session exchange
// declared.
func (b *Broker) Channel() (*amqp.Channel, error) {
	if b == nil || b.conn == nil {
		return nil, ErrQueueDisabled
	}
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(b.cfg.AnalysisQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", b.cfg.AnalysisQueue, err)
	}
	if err := ch.ExchangeDeclare(b.cfg.SessionExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", b.cfg.SessionExchange, err)
	}
	return ch, nil
}

// ConsumeAnalysis starts a manual-ack consumer on the analysis queue.
func (b *Broker) ConsumeAnalysis(ch *amqp.Channel, prefetch int) (<-chan amqp.Delivery, error) {
	if prefetch > 0 {
		if err := ch.Qos(prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}
	return ch.Consume(b.cfg.AnalysisQueue, "", false, false, false, false, nil)
}

// SubscribeSessions binds a private queue to every session routing key.
func (b *Broker) SubscribeSessions(ch *amqp.Channel) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare subscriber queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingKey("*"), b.cfg.SessionExchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind subscriber queue: %w", err)
	}
	return ch.Consume(q.Name, "", true, true, false, false, nil)
}

func (b *Broker) Config() config.QueueConfig {
	if b == nil {
		return config.QueueConfig{}
	}
	return b.cfg
}
