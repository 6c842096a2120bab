package kafka

import (
	"context"
	"time"

	"github.com/jmehdipour/credit-decision/internal/config"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/segmentio/kafka-go"
)

const DefaultGroupID = "credit-decider"

type Message = kafka.Message

// Consumer reads decision requests for one consumer group. Offsets are
// committed explicitly after each message is handled.
type Consumer struct {
	r     *kafka.Reader
	topic string
	group string
}

// NewConsumer builds a reader from the kafka config section, filling in the
// requests topic, group and fetch sizes when they are unset.
func NewConsumer(cfg config.KafkaConfig) *Consumer {
	rc := readerConfig(cfg)
	return &Consumer{r: kafka.NewReader(rc), topic: rc.Topic, group: rc.GroupID}
}

func readerConfig(cfg config.KafkaConfig) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.RequestsTopic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: time.Duration(cfg.CommitInterval) * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
	}
	if rc.Topic == "" {
		rc.Topic = model.TopicDecisionRequested
	}
	if rc.GroupID == "" {
		rc.GroupID = DefaultGroupID
	}
	if rc.MinBytes <= 0 {
		rc.MinBytes = 1 << 10
	}
	if rc.MaxBytes <= 0 {
		rc.MaxBytes = 10 << 20
	}
	if rc.CommitInterval <= 0 {
		rc.CommitInterval = time.Second
	}
	return rc
}

func (c *Consumer) Topic() string { return c.topic }

func (c *Consumer) Group() string { return c.group }

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }
