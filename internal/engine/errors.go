// Package engine implements the candidate resolution and synchronization
// core: discovering candidate builds and bugs, enriching them concurrently
// from external services, filtering them against an eligibility policy, and
// reconciling the result against an advisory's attachment set.
package engine

import (
	"errors"
	"fmt"
)

// ErrNoReleaseHistory is returned when no prior release exists for a
// product line and no explicit date was supplied. The caller must decide a
// default; the scheduler never silently falls back.
var ErrNoReleaseHistory = errors.New("no release history for product line")

// ErrNoTrackersFound is returned when a security advisory flow finds no CVE
// tracker bugs. A security advisory must not be created without at least
// one associated tracker.
var ErrNoTrackersFound = errors.New("no CVE tracker bugs found")

// KeyError records a single failed fetch during enrichment.
type KeyError struct {
	Key string `json:"key"`
	Err error  `json:"-"`
}

// Message renders the failure for structured results.
func (k KeyError) Message() string {
	return fmt.Sprintf("%s: %v", k.Key, k.Err)
}

// ResolutionError reports that candidate discovery failed. In manual mode
// every listed identifier is expected to exist, so a single failed lookup
// produces one of these and aborts the run.
type ResolutionError struct {
	Kind       string // "build" or "bug"
	Identifier string
	Err        error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s %q: %v", e.Kind, e.Identifier, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// EnrichmentError reports that one or more fetches failed during an
// enrichment phase. It carries the per-key failures; partial results are
// returned alongside by the enricher, and the caller decides whether
// partial success is acceptable.
type EnrichmentError struct {
	Phase    string
	Failures []KeyError
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("%s: %d of the fetches failed (first: %s)",
		e.Phase, len(e.Failures), e.Failures[0].Message())
}

// FilterPolicyError reports a malformed eligibility policy, e.g. an unknown
// status in the whitelist.
type FilterPolicyError struct {
	Detail string
}

func (e *FilterPolicyError) Error() string {
	return "invalid eligibility policy: " + e.Detail
}

// CommitError reports a failed remote attach or commit. Nothing is rolled
// back locally; the advisory ID is carried so the operation can be retried
// idempotently.
type CommitError struct {
	AdvisoryID int
	Op         string
	Err        error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("advisory %d: %s failed: %v", e.AdvisoryID, e.Op, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }
