package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m77ag/backend/internal/application/notification"
	"github.com/m77ag/backend/internal/infrastructure/config"
	"github.com/m77ag/backend/internal/infrastructure/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// publisher is the part of *amqp.Channel the notifier uses
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// MailMessage is the JSON body queued for the mail worker
type MailMessage struct {
	ID       string    `json:"id"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queued_at"`
}

// AMQPNotifier queues email on a durable direct exchange for an external
// mail worker
type AMQPNotifier struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  publisher
	exchange string
	queue    string
	from     string
}

// NewAMQPNotifier dials the broker and declares the exchange, queue and binding
func NewAMQPNotifier(cfg config.AMQPConfig) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declare(ch, cfg.Exchange, cfg.Queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	n := newAMQPNotifier(ch, cfg)
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch publisher, cfg config.AMQPConfig) *AMQPNotifier {
	return &AMQPNotifier{channel: ch, exchange: cfg.Exchange, queue: cfg.Queue, from: cfg.From}
}

func declare(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// routing key is the queue name
	if err := ch.QueueBind(queue, queue, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// Send publishes email as a persistent JSON message
func (n *AMQPNotifier) Send(ctx context.Context, email notification.Email) error {
	msg := MailMessage{
		ID:       uuid.NewString(),
		From:     n.from,
		To:       email.To,
		Subject:  email.Subject,
		HTML:     email.HTML,
		QueuedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	n.mu.Lock()
	err = n.channel.PublishWithContext(ctx, n.exchange, n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.QueuedAt,
		Body:         body,
	})
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish mail message: %w", err)
	}

	logger.L(ctx).Info("mail queued",
		zap.String("message_id", msg.ID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// Close closes the channel and connection
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		_ = n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

var _ notification.Notifier = (*AMQPNotifier)(nil)
