package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"skill-bridge/internal/session"

	"github.com/streadway/amqp"
)

type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends analysis requests and session events. It serializes
// publishes on one channel.
type Publisher struct {
	ch       Channel
	queue    string
	exchange string
	mu       sync.Mutex
}

func NewPublisher(ch Channel, analysisQueue, sessionExchange string) *Publisher {
	return &Publisher{ch: ch, queue: analysisQueue, exchange: sessionExchange}
}

func (p *Publisher) EnqueueAnalysis(_ context.Context, msg AnalysisMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return p.publish("", p.queue, amqp.Persistent, msg)
}

func (p *Publisher) NotifySession(_ context.Context, evt session.Event) error {
	return p.publish(p.exchange, RoutingKey(evt.SessionID), amqp.Transient, evt)
}

func (p *Publisher) publish(exchange, key string, mode uint8, v any) error {
	if p == nil || p.ch == nil {
		return ErrQueueDisabled
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: mode,
		Body:         body,
	})
}
