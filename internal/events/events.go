// Package events publishes resume parse status updates to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/logger"
)

// Exchange is the topic exchange status updates are published on.
const Exchange = "resume_updates"

// Update is one parse status transition.
type Update struct {
	FileID    string    `json:"file_id"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoutingKey is resume.<fileId>.
func RoutingKey(fileID string) string {
	return fmt.Sprintf("resume.%s", fileID)
}

// Publisher sends updates over a shared AMQP connection, one channel per
// publish.
type Publisher struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

// Dial connects to the broker and declares the exchange.
func Dial(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn, logger: logger.OrNop(log)}, nil
}

// Notify publishes u. Failures are logged and otherwise ignored.
func (p *Publisher) Notify(_ context.Context, u Update) {
	if err := p.publish(u); err != nil {
		p.logger.Warn("failed to publish update", zap.String("file_id", u.FileID), zap.Error(err))
	}
}

func (p *Publisher) publish(u Update) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(u)
	if err != nil {
		return err
	}

	return ch.Publish(
		Exchange,
		RoutingKey(u.FileID),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    u.Timestamp,
			Body:         body,
		},
	)
}

// Close closes the broker connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
