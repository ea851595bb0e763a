package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/cinebook/internal/queue"
)

// Publisher delivers booking events.  Implementations must not panic; an
// error is logged by the caller and never fails the request.
type Publisher interface {
	PublishBooking(ctx context.Context, queue string, event q.BookingEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishBooking(context.Context, string, q.BookingEvent) error { return nil }

// AMQPPublisher publishes events to RabbitMQ, dialing per message.  Queues
// are declared durable and messages persistent.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

func (p *AMQPPublisher) PublishBooking(ctx context.Context, queue string, event q.BookingEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent).
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}

func publish(ctx context.Context, p Publisher, queue string, ev q.BookingEvent) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := p.PublishBooking(ctx, queue, ev); err != nil {
		slog.Warn("booking event not published", "queue", queue, "booking_id", ev.BookingID, "error", err)
	}
}
