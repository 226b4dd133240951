package engine

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/model"
)

// Committer reconciles a final candidate set against an advisory's current
// attachment list and issues an idempotent attach plus commit. The engine
// holds no local authoritative state, so a failed commit rolls back
// nothing; the error carries the advisory ID for operator retry.
type Committer struct {
	Advisories AdvisoryService
	Bugs       BugService
	Logger     *zap.Logger
}

// SyncOutcome reports what one commit run did.
type SyncOutcome struct {
	AdvisoryID      int      `json:"advisory_id"`
	AttachedNVRs    []string `json:"attached_nvrs,omitempty"`
	AttachedBugs    []int    `json:"attached_bugs,omitempty"`
	AlreadyAttached []string `json:"already_attached,omitempty"`
	// FlagFailures records per-bug flag updates that failed. Flag
	// application is independent per bug; a failure never blocks
	// attachment of the others.
	FlagFailures []KeyError `json:"-"`
}

// SyncBuilds attaches the candidate builds to the advisory and commits.
// The advisory's membership is read fresh so the outcome reflects what the
// call actually changed; the attach itself is one batched, idempotent call.
func (c *Committer) SyncBuilds(ctx context.Context, advisoryID int, candidates []*model.BuildRecord, fileTypesByNVR map[string]string) (*SyncOutcome, error) {
	advisory, err := c.Advisories.GetAdvisory(ctx, advisoryID)
	if err != nil {
		return nil, &CommitError{AdvisoryID: advisoryID, Op: "fetch advisory", Err: err}
	}

	outcome := &SyncOutcome{AdvisoryID: advisoryID}
	nvrs := make([]string, 0, len(candidates))
	for _, b := range candidates {
		nvrs = append(nvrs, b.NVR)
		if advisory.HasBuild(b.NVR) {
			outcome.AlreadyAttached = append(outcome.AlreadyAttached, b.NVR)
		} else {
			outcome.AttachedNVRs = append(outcome.AttachedNVRs, b.NVR)
		}
	}

	if len(nvrs) > 0 {
		if err := c.Advisories.AttachBuilds(ctx, advisoryID, nvrs, fileTypesByNVR); err != nil {
			return nil, &CommitError{AdvisoryID: advisoryID, Op: "attach builds", Err: err}
		}
	}

	if err := c.Advisories.Commit(ctx, advisoryID); err != nil {
		return nil, &CommitError{AdvisoryID: advisoryID, Op: "commit", Err: err}
	}

	c.Logger.Info("synchronized builds",
		zap.Int("advisory", advisoryID),
		zap.Int("attached", len(outcome.AttachedNVRs)),
		zap.Int("already_attached", len(outcome.AlreadyAttached)))
	return outcome, nil
}

// SyncBugs applies any requested flags, attaches the candidate bugs in one
// batched call, and commits. Each flag is set to "+" on every bug before
// attachment; flag failures are reported in the outcome but never abort.
func (c *Committer) SyncBugs(ctx context.Context, advisoryID int, candidates []*model.BugRecord, flags []string) (*SyncOutcome, error) {
	advisory, err := c.Advisories.GetAdvisory(ctx, advisoryID)
	if err != nil {
		return nil, &CommitError{AdvisoryID: advisoryID, Op: "fetch advisory", Err: err}
	}

	outcome := &SyncOutcome{AdvisoryID: advisoryID}
	for _, bug := range candidates {
		for _, flag := range flags {
			if err := c.applyFlag(ctx, bug, flag); err != nil {
				outcome.FlagFailures = append(outcome.FlagFailures,
					KeyError{Key: flagKey(bug.ID, flag), Err: err})
			}
		}
	}

	ids := make([]int, 0, len(candidates))
	for _, b := range candidates {
		ids = append(ids, b.ID)
		if advisory.HasBug(b.ID) {
			outcome.AlreadyAttached = append(outcome.AlreadyAttached, flagKey(b.ID, ""))
		} else {
			outcome.AttachedBugs = append(outcome.AttachedBugs, b.ID)
		}
	}

	if len(ids) > 0 {
		if err := c.Advisories.AttachBugs(ctx, advisoryID, ids); err != nil {
			return nil, &CommitError{AdvisoryID: advisoryID, Op: "attach bugs", Err: err}
		}
	}

	if err := c.Advisories.Commit(ctx, advisoryID); err != nil {
		return nil, &CommitError{AdvisoryID: advisoryID, Op: "commit", Err: err}
	}

	c.Logger.Info("synchronized bugs",
		zap.Int("advisory", advisoryID),
		zap.Int("attached", len(outcome.AttachedBugs)),
		zap.Int("flag_failures", len(outcome.FlagFailures)))
	return outcome, nil
}

// applyFlag sets a flag remotely and only then mutates the cached record;
// the record is a cache of remote state, not the source of truth.
func (c *Committer) applyFlag(ctx context.Context, bug *model.BugRecord, flag string) error {
	if err := c.Bugs.SetBugFlag(ctx, bug.ID, flag, "+"); err != nil {
		c.Logger.Warn("flag update failed",
			zap.Int("bug", bug.ID), zap.String("flag", flag), zap.Error(err))
		return err
	}
	bug.SetFlag(flag, "+")
	return nil
}

func flagKey(id int, flag string) string {
	if flag == "" {
		return "bug " + strconv.Itoa(id)
	}
	return "bug " + strconv.Itoa(id) + " flag " + flag
}
