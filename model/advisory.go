package model

import "time"

// AdvisoryHandle identifies one advisory and carries the attachment set as
// last fetched from the tracking service. The set is advisory-owned and is
// read fresh at reconciliation time; it must never be treated as current
// after any mutation has been issued.
type AdvisoryHandle struct {
	ID            int       `json:"id"`
	Type          string    `json:"type,omitempty"`
	Synopsis      string    `json:"synopsis,omitempty"`
	State         string    `json:"state,omitempty"`
	ReleaseDate   time.Time `json:"release_date,omitempty"`
	AttachedNVRs  []string  `json:"attached_nvrs,omitempty"`
	AttachedBugs  []int     `json:"attached_bugs,omitempty"`
}

// HasBuild reports whether the NVR was attached when the handle was fetched.
func (a *AdvisoryHandle) HasBuild(nvr string) bool {
	for _, n := range a.AttachedNVRs {
		if n == nvr {
			return true
		}
	}
	return false
}

// HasBug reports whether the bug was attached when the handle was fetched.
func (a *AdvisoryHandle) HasBug(id int) bool {
	for _, b := range a.AttachedBugs {
		if b == id {
			return true
		}
	}
	return false
}

// ReleaseHistoryEntry is one prior advisory for a product line, read-only
// input to the release date scheduler.
type ReleaseHistoryEntry struct {
	Synopsis    string    `json:"synopsis"`
	ReleaseDate time.Time `json:"release_date"`
}

// CreateAdvisoryParams collects the computed parameters for a new advisory.
// Advisory creation itself belongs to the tracking service; the engine only
// derives the inputs.
type CreateAdvisoryParams struct {
	Synopsis    string    `json:"synopsis"`
	Type        string    `json:"type"`
	Impact      string    `json:"impact,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
}
