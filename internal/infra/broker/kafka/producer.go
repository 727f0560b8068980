package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"roamstay/internal/app/policies"
	"roamstay/internal/domain/shared/events"
)

type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix}, nil
}

type envelope struct {
	Name        string    `json:"name"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

// Publish ships one domain event. The topic is the event name (optionally
// prefixed) and the aggregate id keys the message, so per-listing ordering
// is preserved within a partition.
func (p *Producer) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(envelope{
		Name:        event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     event,
	})
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + event.EventName(),
		Key:   sarama.StringEncoder(event.AggregateID()),
		Value: sarama.ByteEncoder(payload),
	}
	_, _, err = p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ policies.Publisher = (*Producer)(nil)
