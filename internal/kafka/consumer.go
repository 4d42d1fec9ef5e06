package kafka

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when the message was fully processed and its
// offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer is a single-reader loop with manual commits: FetchMessage never
// advances the group offset, so a failed handler leaves the message
// uncommitted and it comes back after the group rebalances or restarts.
// Refreshers are idempotent, re-handling a message is safe.
type Consumer struct {
	r reader
}

func NewConsumer(brokers []string, group, topic string) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        group,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0, // commit synchronously, only what we handled
		}),
	}
}

func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		if err := h(ctx, m); err != nil {
			log.Printf("kafka: handler: %v", err)
			time.Sleep(200 * time.Millisecond)
			continue
		}
		if err := c.r.CommitMessages(ctx, m); err != nil {
			log.Printf("kafka: commit: %v", err)
		}
	}
}
