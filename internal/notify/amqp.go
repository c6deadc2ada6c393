package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ride-progress-sim/internal/present"
)

// AMQPMirror publishes notifications to a queue capped at one message, so
// consumers always find only the latest one.
type AMQPMirror struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPMirror(url, channelID string) (*AMQPMirror, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	queue := QueueName(channelID)
	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-max-length": int32(1),
			"x-overflow":   "drop-head",
		},
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPMirror{conn: conn, ch: ch, queue: queue}, nil
}

// QueueName is the queue backing a notification channel.
func QueueName(channelID string) string { return "ride.notifications." + channelID }

func (a *AMQPMirror) Post(ctx context.Context, m present.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ch.PublishWithContext(ctx,
		"",      // default exchange
		a.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    strconv.Itoa(m.Notification.ID),
			Type:         "ride_notification",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
}

// Cancel empties the queue; it only ever holds the one notification.
func (a *AMQPMirror) Cancel(_ context.Context, _ int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, err := a.ch.QueuePurge(a.queue, false); err != nil {
		return fmt.Errorf("purge %s: %w", a.queue, err)
	}
	return nil
}

func (a *AMQPMirror) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	_ = a.ch.Close()
	_ = a.conn.Close()
}

var _ present.Notifier = (*AMQPMirror)(nil)
