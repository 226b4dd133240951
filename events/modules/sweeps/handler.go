// Package sweeps handles Kafka event processing for advisory sweep requests.
package sweeps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// SweepService defines the interface for running a sweep against an
// advisory.
type SweepService interface {
	SweepBuilds(ctx context.Context, group string, advisoryID int) (attached, alreadyAttached int, err error)
	SweepBugs(ctx context.Context, group string, advisoryID int) (attached, alreadyAttached int, err error)
}

// Notifier publishes the outcome of a completed sweep.
type Notifier interface {
	PublishAdvisorySynced(ctx context.Context, advisoryID int, kind, group string, attached, alreadyAttached int) error
}

// HandleSweepRequested processes sweep request events from Kafka.
func HandleSweepRequested(ctx context.Context, msg []byte, service SweepService, notifier Notifier) error {
	var event SweepRequestedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal SweepRequestedEvent: %w", err)
	}

	if event.Group == "" || event.Kind == "" {
		return fmt.Errorf("invalid event: missing required fields")
	}

	log.Printf("Processing %s sweep for group %s (advisory=%d)", event.Kind, event.Group, event.AdvisoryID)

	var attached, alreadyAttached int
	var err error
	switch event.Kind {
	case "builds":
		attached, alreadyAttached, err = service.SweepBuilds(ctx, event.Group, event.AdvisoryID)
	case "bugs":
		attached, alreadyAttached, err = service.SweepBugs(ctx, event.Group, event.AdvisoryID)
	default:
		return fmt.Errorf("invalid event: unknown sweep kind %q", event.Kind)
	}
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if event.AdvisoryID != 0 && notifier != nil {
		if err := notifier.PublishAdvisorySynced(ctx, event.AdvisoryID, event.Kind, event.Group, attached, alreadyAttached); err != nil {
			log.Printf("WARNING: Failed to publish advisory.synced event: %v", err)
		}
	}

	log.Printf("Successfully processed %s sweep for group %s", event.Kind, event.Group)
	return nil
}
