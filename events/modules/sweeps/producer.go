// Package sweeps handles Kafka event production for advisory sync events.
package sweeps

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// SyncProducer handles sending advisory-synced events to Kafka
type SyncProducer struct {
	Writer *kafka.Writer
}

// NewSyncProducer initializes a new Kafka writer for sync events
func NewSyncProducer(brokers []string, topic string) *SyncProducer {
	return &SyncProducer{
		Writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishAdvisorySynced sends the event to the Kafka topic
func (p *SyncProducer) PublishAdvisorySynced(ctx context.Context, advisoryID int, kind, group string, attached, alreadyAttached int) error {
	event := AdvisorySyncedEvent{
		EventType:       "advisory.synced",
		EventID:         uuid.New().String(),
		EventTime:       time.Now().UTC(),
		SchemaVersion:   "v1",
		AdvisoryID:      advisoryID,
		Kind:            kind,
		Group:           group,
		AttachedCount:   attached,
		AlreadyAttached: alreadyAttached,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(advisoryID)),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *SyncProducer) Close() error {
	return p.Writer.Close()
}
