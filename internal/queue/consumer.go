package queue

// The booking consumer listens on the booking queues and appends one line per
// event to logs/booking.log.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer appends booking events received from the broker to a log file.
type Consumer struct {
	URL    string
	LogDir string
}

// Run connects to the broker, declares the booking queues (durable) and
// consumes until ctx is cancelled.  Lost connections are retried with
// exponential backoff capped at 30s.  A message that cannot be handled is
// rejected without requeue so it cannot spin.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			slog.Warn("booking-consumer: failed to dial broker", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("booking-consumer: consume loop ended; reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		slog.Warn("booking-consumer: set QoS failed", "error", err)
	}

	deliveries := make(chan amqp.Delivery)
	for _, name := range []string{BookingCreatedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		go func() {
			for d := range msgs {
				select {
				case deliveries <- d:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-closed:
			if err == nil {
				return errors.New("connection closed")
			}
			return err
		case d := <-deliveries:
			if err := c.HandleMessage(d.Body); err != nil {
				slog.Error("booking-consumer: handle message failed", "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to booking.log in LogDir.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	dir := c.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev BookingEvent) string {
	return fmt.Sprintf("[%s] Booking %s | booking_id=%s | user_id=%s | movie_id=%s | movie=%q | showtime=%q | tickets=%d | total=%.2f\n",
		ev.OccurredAt, ev.Type, ev.BookingID, ev.UserID, ev.MovieID, ev.MovieTitle, ev.Showtime, ev.NumberOfTickets, ev.TotalPrice)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
