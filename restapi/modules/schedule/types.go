package schedule

// AdvisoryParamsRequest represents the request body for deriving advisory
// creation parameters
type AdvisoryParamsRequest struct {
	// Group names the product line whose cadence and target releases are
	// used.
	Group string `json:"group"`

	Synopsis string `json:"synopsis,omitempty"`

	// Type overrides the group's default advisory type.
	Type string `json:"type,omitempty"`

	// Date overrides the computed release date.
	Date string `json:"date,omitempty"`

	// AggregateImpact derives the security impact from open CVE trackers.
	AggregateImpact bool `json:"aggregate_impact,omitempty"`
}
