// Package messaging wraps the kafka transport behind small interfaces so the
// decision pipeline never sees broker details. Delivery is at-least-once on
// the inbound side and best-effort fire-and-forget on the outbound side.
package messaging

import (
	"context"
	"time"

	"github.com/golang/glog"
	kafka "github.com/segmentio/kafka-go"
)

// Message is one inbound record plus the bookkeeping needed to commit it.
type Message struct {
	Key   []byte
	Value []byte

	raw kafka.Message
}

// NewConsumer joins the given consumer group on one topic. All pipeline
// workers share a single Consumer; fetches and commits are safe to issue
// from multiple goroutines.
func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			Topic:       topic,
			GroupID:     groupID,
			MinBytes:    1,
			MaxBytes:    10e6,
			MaxWait:     250 * time.Millisecond,
			ErrorLogger: kafkaErrorLogger(),
		}),
	}
}

type Consumer struct {
	reader *kafka.Reader
}

// Fetch blocks for the next message without committing it.
func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	raw, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Key: raw.Key, Value: raw.Value, raw: raw}, nil
}

// Commit marks a fetched message as processed. A message is committed after
// its terminal outcome, including the contained-error outcome; this core
// never retries a request.
func (c *Consumer) Commit(ctx context.Context, msg Message) error {
	return c.reader.CommitMessages(ctx, msg.raw)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// NewPublisher builds an asynchronous writer for one topic. WriteMessages
// returns as soon as the message is enqueued; delivery failures surface only
// through the writer's error logger. Messages with the same key land on the
// same partition, which is how downstream consumers group responses by
// impression id.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			Async:        true,
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 5 * time.Millisecond,
			ErrorLogger:  kafkaErrorLogger(),
		},
	}
}

type Publisher struct {
	writer *kafka.Writer
}

// Publish enqueues one payload under the given key. The returned error covers
// enqueueing only, never broker acknowledgment.
func (p *Publisher) Publish(ctx context.Context, key string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// Close flushes any batched messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func kafkaErrorLogger() kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		glog.Errorf("kafka: "+msg, args...)
	}
}
