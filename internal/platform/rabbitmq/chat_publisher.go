package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"tenantrag/internal/model"
)

// ChatPublisher enqueues chat messages for asynchronous persistence.
type ChatPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewChatPublisher(conn *amqp.Connection, queueName string) *ChatPublisher {
	return &ChatPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *ChatPublisher) Publish(ctx context.Context, msg model.ChatMessage) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish chat message failed: %w", err)
	}
	return nil
}
