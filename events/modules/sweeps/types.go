// Package sweeps defines types for Kafka event processing of advisory
// sweep requests and sync notifications.
package sweeps

import "time"

// SweepRequestedEvent asks the backend to run a sweep against an advisory.
type SweepRequestedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	// Kind selects the sweep: "builds" or "bugs".
	Kind string `json:"kind"`

	// Group is the product line whose metadata drives the sweep.
	Group string `json:"group"`

	// AdvisoryID is the advisory to attach to; zero means resolve only.
	AdvisoryID int `json:"advisory_id"`
}

// AdvisorySyncedEvent reports a completed attach-and-commit run.
type AdvisorySyncedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	AdvisoryID      int    `json:"advisory_id"`
	Kind            string `json:"kind"`
	Group           string `json:"group"`
	AttachedCount   int    `json:"attached_count"`
	AlreadyAttached int    `json:"already_attached"`
}
