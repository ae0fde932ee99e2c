// Package notify publishes token events for out-of-band delivery, e.g. by a
// mail service consuming a Kafka topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmitrijs2005/accountauth/internal/server/models"
)

const writeTimeout = 10 * time.Second

// messageWriter is the part of *kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier writes one JSON message per token event, keyed by account
// id so that events of an account stay ordered within a partition.
type KafkaNotifier struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			WriteTimeout: writeTimeout,
		},
		now: time.Now,
	}
}

func (n *KafkaNotifier) Notify(ctx context.Context, event models.TokenEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal token event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AccountID, 10)),
		Value: value,
		Time:  n.now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Kind)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish token event: %w", err)
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
