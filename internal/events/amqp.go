package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher writes events as persistent JSON messages to a durable queue
type AMQPPublisher struct {
	conn      *amqp.Connection
	queueName string
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher publishes to queueName over conn
func NewAMQPPublisher(conn *amqp.Connection, queueName string) *AMQPPublisher {
	return &AMQPPublisher{conn: conn, queueName: queueName}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event WorkspaceEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload failed: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
		Type:         event.Action,
		Timestamp:    event.At,
	}); err != nil {
		return fmt.Errorf("publish event failed: %w", err)
	}
	return nil
}
