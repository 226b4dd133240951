package engine

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/model"
	"github.com/release-eng/advisory-sync/util"
)

// BugResolver derives and enriches the candidate bug set for one run.
type BugResolver struct {
	Bugs        BugService
	Logger      *zap.Logger
	Concurrency int
}

// ResolveManual fetches an explicit list of bug IDs. Any single fetch
// failure is fatal and cancels the in-flight rest.
func (r *BugResolver) ResolveManual(ctx context.Context, ids []int) ([]*model.BugRecord, error) {
	enricher := &Enricher[int, *model.BugRecord]{
		Concurrency: r.Concurrency,
		FailFast:    true,
	}
	records, failures, err := enricher.Run(ctx, dedupInts(ids), strconv.Itoa, r.Bugs.GetBug)
	if err != nil {
		return nil, &ResolutionError{Kind: "bug", Identifier: failures[0].Key, Err: err}
	}
	return records, nil
}

// ResolveSweep discovers bugs whose target release matches the product
// line's release list and whose status is in the whitelist, then enriches
// each one. Individual fetch failures are exclusions, not fatal.
func (r *BugResolver) ResolveSweep(ctx context.Context, targetReleases []string, statuses []model.BugStatus) ([]*model.BugRecord, []KeyError, error) {
	if len(statuses) == 0 {
		statuses = model.DefaultSweepStatuses()
	}
	return r.search(ctx, targetReleases, statuses, false)
}

// ResolveTrackers discovers CVE tracker bugs for the product line, using
// the wider tracker status whitelist by default.
func (r *BugResolver) ResolveTrackers(ctx context.Context, targetReleases []string, statuses []model.BugStatus) ([]*model.BugRecord, []KeyError, error) {
	if len(statuses) == 0 {
		statuses = model.DefaultTrackerStatuses()
	}
	return r.search(ctx, targetReleases, statuses, true)
}

func (r *BugResolver) search(ctx context.Context, targetReleases []string, statuses []model.BugStatus, trackersOnly bool) ([]*model.BugRecord, []KeyError, error) {
	ids, err := r.Bugs.SearchBugs(ctx, targetReleases, statuses, trackersOnly)
	if err != nil {
		return nil, nil, &ResolutionError{Kind: "bug", Identifier: "search", Err: err}
	}

	enricher := &Enricher[int, *model.BugRecord]{Concurrency: r.Concurrency}
	records, failures, _ := enricher.Run(ctx, dedupInts(ids), strconv.Itoa, r.Bugs.GetBug)
	if len(records) == 0 && len(failures) > 0 {
		return nil, failures, &EnrichmentError{Phase: "bug enrichment", Failures: failures}
	}
	for _, f := range failures {
		r.Logger.Warn("excluding bug after failed enrichment",
			zap.String("id", f.Key), zap.Error(f.Err))
	}
	return records, failures, nil
}

// AggregateImpact maps every tracker's severity onto the ordered severity
// scale and returns the advisory-level impact: the worst case across all
// trackers. An empty tracker set is an error; a security advisory must not
// be created without at least one tracker.
func AggregateImpact(trackers []*model.BugRecord) (string, error) {
	if len(trackers) == 0 {
		return "", ErrNoTrackersFound
	}
	severities := make([]string, 0, len(trackers))
	for _, t := range trackers {
		severities = append(severities, t.Severity)
	}
	return util.ImpactRating(util.MaxSeverity(severities)), nil
}

func dedupInts(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
