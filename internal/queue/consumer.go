package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/table-reservation/internal/config"
)

var logger = log.New("queue")

// StartEventConsumer consumes reservation events and appends one line per
// event to cfg.LogPath.  It reconnects with exponential backoff and only
// returns once ctx is cancelled.
func StartEventConsumer(ctx context.Context, cfg config.QueueConfig) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			logger.Warnj(log.JSON{"msg": "dial broker failed", "error": err.Error(), "retry_in": backoff.String()})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnj(log.JSON{"msg": "consume loop ended, reconnecting", "error": fmt.Sprint(err)})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Warnj(log.JSON{"msg": "set qos failed", "error": err.Error()})
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := AppendEvent(cfg.LogPath, d.Body); err != nil {
			logger.Errorj(log.JSON{"msg": "handle event failed", "message_id": d.MessageId, "error": err.Error()})
			// Malformed events would redeliver forever.
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// AppendEvent decodes one event body and appends its notification line to
// path, creating the directory when needed.
func AppendEvent(path string, body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" || ev.ReservationID == 0 {
		return errors.New("event without type or reservation id")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev ReservationEvent) string {
	switch ev.Type {
	case EventDeleted:
		return fmt.Sprintf("[%s] %s | reservation_id=%d | phone=%s | date=%s | slot=%s\n",
			ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ReservationID, ev.Phone, ev.Date, ev.Slot)
	default:
		return fmt.Sprintf("[%s] %s | reservation_id=%d | name=%q | phone=%s | party=%d | date=%s | slot=%s | table=%s\n",
			ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ReservationID, ev.BookedName, ev.Phone,
			ev.PartySize, ev.Date, ev.Slot, tableLabel(ev))
	}
}

func tableLabel(ev ReservationEvent) string {
	if ev.ExternalTableID != "" {
		return ev.ExternalTableID
	}
	return fmt.Sprintf("#%d", ev.TableID)
}
