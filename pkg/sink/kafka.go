package sink

import (
	"context"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka produces one message per snapshot, keyed by symbol.
type Kafka struct {
	writer kafkaWriter
}

func NewKafka(cfg KafkaConfig) *Kafka {
	return &Kafka{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Write(ctx context.Context, symbol string, payload []byte) error {
	err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(symbol), Value: payload})
	return errors.Wrap(err, "kafka write")
}

func (k *Kafka) Close() error { return k.writer.Close() }
