package queue

import (
	"context"
	"encoding/json"
	"errors"

	"skill-bridge/internal/pkg/logger"
	"skill-bridge/internal/session"
	"skill-bridge/internal/worker"

	"github.com/streadway/amqp"
)

type Handler func(ctx context.Context, msg AnalysisMessage) error

// Consumer feeds analysis deliveries into a worker pool. Every delivery is
// acknowledged once handled; the outcome lives in the session itself.
type Consumer struct {
	pool   *worker.Pool
	handle Handler
	logger *logger.Logger
}

func NewConsumer(pool *worker.Pool, handle Handler, log *logger.Logger) *Consumer {
	return &Consumer{pool: pool, handle: handle, logger: log}
}

// Run blocks until deliveries is closed or ctx is done.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := c.dispatch(ctx, d); err != nil {
				return err
			}
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d amqp.Delivery) error {
	var msg AnalysisMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.logger.Warn("drop undecodable analysis message", "error", err)
		_ = d.Reject(false)
		return nil
	}
	if err := msg.Validate(); err != nil {
		c.logger.Warn("drop invalid analysis message", "session_id", msg.SessionID, "error", err)
		_ = d.Reject(false)
		return nil
	}

	err := c.pool.Submit(ctx, func(ctx context.Context) error {
		c.logger.Info("processing session", "session_id", msg.SessionID)
		herr := c.handle(ctx, msg)
		if herr != nil {
			c.logger.Warn("session analysis failed", "session_id", msg.SessionID, "error", herr)
		}
		if aerr := d.Ack(false); aerr != nil {
			c.logger.Error("ack failed", "session_id", msg.SessionID, "error", aerr)
		}
		return herr
	})
	if err != nil {
		_ = d.Nack(false, true)
		if errors.Is(err, worker.ErrPoolClosed) || errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Error("submit failed", "session_id", msg.SessionID, "error", err)
	}
	return nil
}

// ForwardEvents relays session events from the exchange to a local notifier,
// such as the websocket hub.
func ForwardEvents(ctx context.Context, deliveries <-chan amqp.Delivery, n session.Notifier, log *logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			var evt session.Event
			if err := json.Unmarshal(d.Body, &evt); err != nil || evt.SessionID == "" {
				log.Warn("drop malformed session event", "routing_key", d.RoutingKey)
				continue
			}
			if err := n.NotifySession(ctx, evt); err != nil {
				log.Warn("forward session event failed", "session_id", evt.SessionID, "error", err)
			}
		}
	}
}
