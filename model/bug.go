package model

import (
	"fmt"
	"strings"
)

// BugStatus is the bug tracker's workflow state vocabulary.
type BugStatus string

// Bug workflow states, in workflow order.
const (
	StatusNew            BugStatus = "NEW"
	StatusAssigned       BugStatus = "ASSIGNED"
	StatusPost           BugStatus = "POST"
	StatusModified       BugStatus = "MODIFIED"
	StatusOnQA           BugStatus = "ON_QA"
	StatusVerified       BugStatus = "VERIFIED"
	StatusReleasePending BugStatus = "RELEASE_PENDING"
	StatusClosed         BugStatus = "CLOSED"
)

var knownStatuses = map[BugStatus]bool{
	StatusNew:            true,
	StatusAssigned:       true,
	StatusPost:           true,
	StatusModified:       true,
	StatusOnQA:           true,
	StatusVerified:       true,
	StatusReleasePending: true,
	StatusClosed:         true,
}

// ParseBugStatus validates a status string against the fixed vocabulary.
func ParseBugStatus(s string) (BugStatus, error) {
	status := BugStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !knownStatuses[status] {
		return "", fmt.Errorf("unknown bug status %q", s)
	}
	return status, nil
}

// DefaultSweepStatuses is the status whitelist for a plain bug sweep.
func DefaultSweepStatuses() []BugStatus {
	return []BugStatus{StatusModified, StatusVerified}
}

// DefaultTrackerStatuses is the wider status whitelist used when searching
// for CVE tracker bugs.
func DefaultTrackerStatuses() []BugStatus {
	return []BugStatus{
		StatusNew, StatusAssigned, StatusPost, StatusModified,
		StatusOnQA, StatusVerified, StatusReleasePending,
	}
}

// BugRecord is a resolved defect as reported by the bug tracker. The record
// is a cache of remote state: repair and flag operations mutate it in place
// only after the remote update succeeded.
type BugRecord struct {
	ID             int               `json:"id"`
	Status         BugStatus         `json:"status"`
	Severity       string            `json:"severity,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	TargetReleases []string          `json:"target_releases,omitempty"`
	Flags          map[string]string `json:"flags,omitempty"`
	IsTracker      bool              `json:"is_tracker,omitempty"`

	AttachedToOpenAdvisory bool     `json:"attached_to_open_advisory"`
	OpenAdvisoryTypes      []string `json:"open_advisory_types,omitempty"`
}

// FlagValue returns the value of a flag, or "" when unset.
func (b *BugRecord) FlagValue(name string) string {
	if b.Flags == nil {
		return ""
	}
	return b.Flags[name]
}

// SetFlag records a confirmed remote flag change on the cached record.
func (b *BugRecord) SetFlag(name, value string) {
	if b.Flags == nil {
		b.Flags = make(map[string]string)
	}
	b.Flags[name] = value
}
