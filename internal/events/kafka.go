package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaConfig configures NewKafkaPublisher.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes LeadCaptured events keyed by lead id.
type KafkaPublisher struct {
	writer messageWriter
	logger logrus.FieldLogger
	topic  string
}

// NewKafkaPublisher creates an async writer; delivery failures are logged by
// the writer rather than returned to the caller.
func NewKafkaPublisher(cfg KafkaConfig, logger logrus.FieldLogger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka publisher configuration incomplete: both brokers and topic are required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: requiredAcks(cfg.RequiredAcks),
		Async:        true,
		WriteTimeout: 5 * time.Second,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Errorf("kafka writer: "+msg, args...)
		}),
	}

	logger.WithFields(logrus.Fields{"brokers": cfg.Brokers, "topic": cfg.Topic}).Info("kafka publisher created")

	return &KafkaPublisher{writer: w, logger: logger, topic: cfg.Topic}, nil
}

func requiredAcks(value string) kafka.RequiredAcks {
	switch value {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}

// PublishLeadCaptured enqueues one event.
func (p *KafkaPublisher) PublishLeadCaptured(ctx context.Context, event LeadCaptured) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize lead event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.LeadID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("lead.captured")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write lead event to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes buffered events.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("closing kafka publisher")
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
