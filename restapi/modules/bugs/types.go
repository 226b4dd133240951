// Package bugs implements the REST API handlers for bug candidate
// resolution, attachment, and status repair.
package bugs

// ResolveRequest represents the request body for bug resolution
type ResolveRequest struct {
	// Mode is "manual", "sweep", or "trackers".
	Mode string `json:"mode"`

	// IDs lists explicit bugs for manual mode.
	IDs []int `json:"ids,omitempty"`

	// Group names the product line for the automatic modes.
	Group string `json:"group,omitempty"`

	// Statuses overrides the default status whitelist.
	Statuses []string `json:"statuses,omitempty"`

	// AdvisoryID, when non-zero, attaches and commits the candidates.
	AdvisoryID int `json:"advisory_id,omitempty"`

	// Flags are applied as "+" to every candidate before attachment.
	Flags []string `json:"flags,omitempty"`

	// AggregateImpact computes the advisory-level security impact
	// (trackers mode).
	AggregateImpact bool `json:"aggregate_impact,omitempty"`

	// SameTypeOnly narrows the already-attached exclusion to advisories
	// of the group's advisory type.
	SameTypeOnly bool `json:"same_type_only,omitempty"`
}

// RepairRequest represents the request body for bug status repair
type RepairRequest struct {
	IDs     []int    `json:"ids,omitempty"`
	Group   string   `json:"group,omitempty"`
	From    []string `json:"from"`
	To      string   `json:"to"`
	Comment string   `json:"comment,omitempty"`
	Private bool     `json:"private,omitempty"`
}
