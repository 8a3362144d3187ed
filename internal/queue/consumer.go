package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/notify"
)

// Mailer sends the emails for a confirmed booking.
type Mailer interface {
	SendBookingEmails(ctx context.Context, e notify.BookingEmail) error
}

// Consumer drains the booking queue.
type Consumer struct {
	cfg    config.QueueConfig
	log    *logrus.Logger
	audit  io.Writer
	mailer Mailer
}

// NewConsumer returns a consumer writing its audit trail to auditPath.
// The file is rotated at 10 MB with 5 compressed backups kept for 30 days.
func NewConsumer(cfg config.QueueConfig, auditPath string, mailer Mailer, log *logrus.Logger) *Consumer {
	return &Consumer{
		cfg: cfg,
		log: log,
		audit: &lumberjack.Logger{
			Filename:   auditPath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
		mailer: mailer,
	}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled, dialing
// again with exponential backoff (capped at 30s) whenever the connection
// drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.cfg.URL)
		if err != nil {
			c.log.WithError(err).WithField("retry_in", backoff.String()).Warn("booking-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).Warn("booking-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		c.log.WithError(err).Warn("booking-consumer: set QoS failed")
	}
	if err := declare(ch, c.cfg.Queue); err != nil {
		return err
	}
	msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(ctx, d.Body); err != nil {
				c.log.WithError(err).Error("booking-consumer: handle message failed")
				// reject without requeue, email failures are never retried
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage writes one audit line for the booking and then sends its
// emails.  The audit line is written even when mailing fails.
func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	line := fmt.Sprintf("[%s] Booking confirmed | booking_id=%d | property_id=%d | guest_user_id=%d | property=%q | check_in=%s | check_out=%s | guests=%d | total=%.2f | ref=%s\n",
		ev.ConfirmedAt, ev.BookingID, ev.PropertyID, ev.GuestUserID, ev.Email.PropertyTitle,
		ev.Email.CheckIn, ev.Email.CheckOut, ev.Email.Guests, ev.Email.GrandTotal, ev.Email.PaymentReference)
	if _, err := io.WriteString(c.audit, line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}

	if c.mailer == nil {
		return nil
	}
	if err := c.mailer.SendBookingEmails(ctx, ev.Email); err != nil {
		return fmt.Errorf("send booking emails for %d: %w", ev.BookingID, err)
	}
	return nil
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
