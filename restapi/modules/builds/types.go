// Package builds implements the REST API handlers for build candidate
// resolution and attachment.
package builds

// ResolveRequest represents the request body for build resolution
type ResolveRequest struct {
	// Mode is "manual", "tagged", or "images".
	Mode string `json:"mode"`

	// NVRs lists explicit builds for manual mode.
	NVRs []string `json:"nvrs,omitempty"`

	// Group names the product line for the automatic modes.
	Group string `json:"group,omitempty"`

	// AdvisoryID, when non-zero, attaches and commits the candidates.
	AdvisoryID int `json:"advisory_id,omitempty"`

	// FileType classifies every attached build, e.g. "rpm" or "tar".
	FileType string `json:"file_type,omitempty"`

	// SameTypeOnly narrows the already-attached exclusion to advisories
	// of the group's advisory type.
	SameTypeOnly bool `json:"same_type_only,omitempty"`
}
