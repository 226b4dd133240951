// Package kafka runs the event processor consuming advisory sweep
// requests.
package kafka

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/release-eng/advisory-sync/events/modules/sweeps"
	"github.com/release-eng/advisory-sync/internal/services"
)

// RunEventProcessor connects to Kafka and consumes sweep-request events
// until the context is cancelled. Sync outcomes are published back through
// the producer.
func RunEventProcessor(ctx context.Context, service *services.SweepServiceWrapper, producer *sweeps.SyncProducer) error {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	var brokers []string
	if brokersEnv != "" {
		brokers = strings.Split(brokersEnv, ",")
	} else {
		brokers = []string{"localhost:9092"}
	}

	// SASL/PLAIN only when credentials are provided; plain dialer for
	// local development otherwise.
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	var dialer *kafka.Dialer
	if username != "" && password != "" {
		mechanism := plain.Mechanism{
			Username: username,
			Password: password,
		}
		dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
			TLS:           &tls.Config{},
		}
	} else {
		dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
		}
	}

	topic := os.Getenv("KAFKA_SWEEP_TOPIC")
	if topic == "" {
		topic = "advisory-sweep-requests"
	}

	var conn *kafka.Conn
	var err error

	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Printf("Kafka connection attempt %d/3...", i)
		conn, err = dialer.DialContext(ctx, "tcp", brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return err
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  "advisory-sync-worker",
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	go func() {
		defer reader.Close()

		log.Println("Kafka Event Processor started. Listening for sweep requests...")

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := reader.ReadMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					continue
				}
				if err := sweeps.HandleSweepRequested(ctx, msg.Value, service, producer); err != nil {
					log.Printf("WARNING: sweep request failed: %v", err)
				}
			}
		}
	}()

	return nil
}
