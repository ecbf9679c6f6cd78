package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/flowstate-hq/booking-api/internal/mailer"
)

// maxNotificationAttempts bounds email redelivery per booking.  After
// the last attempt the message is dropped with a log line; the booking
// itself is already persisted and unaffected.
const maxNotificationAttempts = 5

// ConfirmationSender is the slice of the mailer the consumer needs.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, c mailer.Confirmation) error
}

// StartNotificationConsumer consumes notification.retry messages and
// re-attempts confirmation email delivery.  Retries are keyed on the
// booking id and only the email is re-sent, never payment
// verification or the insert.  Failed attempts are re-published with
// an incremented attempt counter until the cap is reached.
func StartNotificationConsumer(url string, sender ConfirmationSender, pub *Publisher) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeNotificationLoop(conn, sender, pub); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeNotificationLoop(conn *amqp.Connection, sender ConfirmationSender, pub *Publisher) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(NotificationRetryQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(NotificationRetryQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleNotificationRetry(d.Body, sender, pub); err != nil {
			log.Printf("notification-consumer: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("deliveries channel closed")
}

// handleNotificationRetry attempts one delivery.  A send failure is
// not an error for the consumer loop: the message is acked and a
// follow-up retry is scheduled instead, so the queue never wedges on a
// dead mailbox.
func handleNotificationRetry(body []byte, sender ConfirmationSender, pub *Publisher) error {
	var ev NotificationRetryEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal retry event: %w", err)
	}

	start, err := time.Parse(time.RFC3339, ev.Start)
	if err != nil {
		return fmt.Errorf("booking %d: bad start instant %q: %w", ev.BookingID, ev.Start, err)
	}
	end, err := time.Parse(time.RFC3339, ev.End)
	if err != nil {
		return fmt.Errorf("booking %d: bad end instant %q: %w", ev.BookingID, ev.End, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sendErr := sender.SendConfirmation(ctx, mailer.Confirmation{
		To:           ev.To,
		UserName:     ev.UserName,
		SessionTime:  ev.SessionTime,
		OrderID:      ev.OrderID,
		Amount:       ev.Amount,
		Start:        start,
		End:          end,
		CafeName:     ev.CafeName,
		CafeAddress:  ev.CafeAddress,
		CafeMapsLink: ev.CafeMapsLink,
	})
	if sendErr == nil {
		log.Printf("notification-consumer: booking %d confirmation delivered on attempt %d", ev.BookingID, ev.Attempt)
		return nil
	}

	if ev.Attempt >= maxNotificationAttempts {
		log.Printf("notification-consumer: booking %d giving up after %d attempts: %v", ev.BookingID, ev.Attempt, sendErr)
		return nil
	}

	// Schedule the next attempt.  The sleep before republish is a
	// crude backoff; attempts are far enough apart for transient SMTP
	// trouble to clear.
	log.Printf("notification-consumer: booking %d attempt %d failed: %v", ev.BookingID, ev.Attempt, sendErr)
	time.Sleep(time.Duration(ev.Attempt) * 5 * time.Second)
	ev.Attempt++
	if err := pub.NotificationRetry(ctx, ev); err != nil {
		return fmt.Errorf("booking %d: republish retry: %w", ev.BookingID, err)
	}
	return nil
}
