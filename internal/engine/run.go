package engine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/model"
)

// RunState is the coarse phase of one engine run. Transitions only move
// forward; FAILED is terminal and carries the originating error.
type RunState string

// Run states in transition order.
const (
	StateResolving  RunState = "RESOLVING"
	StateEnriching  RunState = "ENRICHING"
	StateFiltering  RunState = "FILTERING"
	StateCommitting RunState = "COMMITTING"
	StateDone       RunState = "DONE"
	StateFailed     RunState = "FAILED"
)

// ResolveMode selects how the initial candidate set is discovered.
type ResolveMode string

// Resolution modes. Manual and the automatic modes are mutually exclusive.
const (
	ModeManual   ResolveMode = "manual"
	ModeTagged   ResolveMode = "tagged"
	ModeImages   ResolveMode = "images"
	ModeSweep    ResolveMode = "sweep"
	ModeTrackers ResolveMode = "trackers"
)

// Engine wires the resolvers, filter, and committer over the injected
// service clients. It is stateless across runs.
type Engine struct {
	Builds      BuildService
	Bugs        BugService
	Advisories  AdvisoryService
	Logger      *zap.Logger
	Concurrency int
}

// run tracks the state machine for one workflow invocation.
type run struct {
	state  RunState
	logger *zap.Logger
}

func (r *run) transition(next RunState) {
	r.logger.Debug("run state", zap.String("from", string(r.state)), zap.String("to", string(next)))
	r.state = next
}

func (r *run) fail(err error) error {
	r.state = StateFailed
	r.logger.Error("run failed", zap.Error(err))
	return err
}

// BuildRequest describes one build resolution run.
type BuildRequest struct {
	Mode           ResolveMode
	Identifiers    []model.BuildIdentifier // manual mode
	CandidateTag   string                  // tagged mode
	ShippedTags    []string
	Members        []ImageMember // images mode
	ExcludeImages  []string
	ProductVersion string
	Policy         model.EligibilityPolicy
	AdvisoryType   string

	// AdvisoryID, when non-zero, makes the run attach and commit.
	AdvisoryID     int
	FileTypesByNVR map[string]string
	// DefaultFileType classifies every candidate when FileTypesByNVR is
	// not given per NVR.
	DefaultFileType string
}

// BuildResult is the structured outcome of a build run.
type BuildResult struct {
	State      RunState              `json:"state"`
	Candidates []*model.BuildRecord  `json:"candidates"`
	Excluded   []string              `json:"excluded,omitempty"`
	Outcome    *SyncOutcome          `json:"outcome,omitempty"`
}

// ResolveBuilds runs the build pipeline: resolve, enrich, filter, and, when
// an advisory is given, attach and commit.
func (e *Engine) ResolveBuilds(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	r := &run{state: StateResolving, logger: e.Logger.With(zap.String("workflow", "builds"))}
	resolver := &BuildResolver{Builds: e.Builds, Logger: e.Logger, Concurrency: e.Concurrency}

	// Automatic discovery always excludes already-attached items; a
	// manually named item is assumed deliberate and never is.
	req.Policy.ExcludeAttached = req.Mode != ModeManual

	var (
		records  []*model.BuildRecord
		failures []KeyError
		err      error
	)
	r.transition(StateEnriching)
	switch req.Mode {
	case ModeManual:
		records, err = resolver.ResolveManual(ctx, req.Identifiers, req.ProductVersion)
	case ModeTagged:
		records, failures, err = resolver.ResolveTagged(ctx, req.CandidateTag, req.ShippedTags, req.ProductVersion)
	case ModeImages:
		records, failures, err = resolver.ResolveImages(ctx, req.Members, req.ExcludeImages, req.ProductVersion)
	default:
		return nil, r.fail(&ResolutionError{Kind: "build", Identifier: string(req.Mode), Err: errUnknownMode})
	}
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(StateFiltering)
	filter, err := NewFilter(req.Policy, req.AdvisoryType)
	if err != nil {
		return nil, r.fail(err)
	}
	candidates := filter.Builds(records)

	result := &BuildResult{Candidates: candidates, Excluded: keyErrorMessages(failures)}

	if req.AdvisoryID != 0 {
		r.transition(StateCommitting)
		fileTypes := req.FileTypesByNVR
		if fileTypes == nil && req.DefaultFileType != "" {
			fileTypes = make(map[string]string, len(candidates))
			for _, b := range candidates {
				fileTypes[b.NVR] = req.DefaultFileType
			}
		}
		committer := &Committer{Advisories: e.Advisories, Bugs: e.Bugs, Logger: e.Logger}
		outcome, err := committer.SyncBuilds(ctx, req.AdvisoryID, candidates, fileTypes)
		if err != nil {
			return nil, r.fail(err)
		}
		result.Outcome = outcome
	}

	r.transition(StateDone)
	result.State = r.state
	return result, nil
}

// BugRequest describes one bug resolution run.
type BugRequest struct {
	Mode           ResolveMode
	IDs            []int // manual mode
	TargetReleases []string
	Statuses       []model.BugStatus
	Policy         model.EligibilityPolicy
	AdvisoryType   string

	// AdvisoryID, when non-zero, makes the run attach and commit.
	AdvisoryID int
	Flags      []string

	// AggregateImpact computes the advisory-level security impact from
	// the resolved trackers (trackers mode only).
	AggregateImpact bool
}

// BugResult is the structured outcome of a bug run.
type BugResult struct {
	State      RunState            `json:"state"`
	Candidates []*model.BugRecord  `json:"candidates"`
	Excluded   []string            `json:"excluded,omitempty"`
	Impact     string              `json:"impact,omitempty"`
	Outcome    *SyncOutcome        `json:"outcome,omitempty"`
}

// ResolveBugs runs the bug pipeline: resolve, enrich, filter, optionally
// aggregate security impact, and, when an advisory is given, flag, attach,
// and commit.
func (e *Engine) ResolveBugs(ctx context.Context, req BugRequest) (*BugResult, error) {
	r := &run{state: StateResolving, logger: e.Logger.With(zap.String("workflow", "bugs"))}
	resolver := &BugResolver{Bugs: e.Bugs, Logger: e.Logger, Concurrency: e.Concurrency}

	req.Policy.ExcludeAttached = req.Mode != ModeManual
	if req.Mode != ModeManual && len(req.Policy.StatusWhitelist) == 0 {
		req.Policy.StatusWhitelist = req.Statuses
	}

	var (
		records  []*model.BugRecord
		failures []KeyError
		err      error
	)
	r.transition(StateEnriching)
	switch req.Mode {
	case ModeManual:
		records, err = resolver.ResolveManual(ctx, req.IDs)
	case ModeSweep:
		records, failures, err = resolver.ResolveSweep(ctx, req.TargetReleases, req.Statuses)
	case ModeTrackers:
		records, failures, err = resolver.ResolveTrackers(ctx, req.TargetReleases, req.Statuses)
	default:
		return nil, r.fail(&ResolutionError{Kind: "bug", Identifier: string(req.Mode), Err: errUnknownMode})
	}
	if err != nil {
		return nil, r.fail(err)
	}

	r.transition(StateFiltering)
	filter, err := NewFilter(req.Policy, req.AdvisoryType)
	if err != nil {
		return nil, r.fail(err)
	}
	candidates := filter.Bugs(records)

	result := &BugResult{Candidates: candidates, Excluded: keyErrorMessages(failures)}

	if req.AggregateImpact {
		impact, err := AggregateImpact(candidates)
		if err != nil {
			return nil, r.fail(err)
		}
		result.Impact = impact
	}

	if req.AdvisoryID != 0 {
		r.transition(StateCommitting)
		committer := &Committer{Advisories: e.Advisories, Bugs: e.Bugs, Logger: e.Logger}
		outcome, err := committer.SyncBugs(ctx, req.AdvisoryID, candidates, req.Flags)
		if err != nil {
			return nil, r.fail(err)
		}
		result.Outcome = outcome
	}

	r.transition(StateDone)
	result.State = r.state
	return result, nil
}

// ComputeReleaseDate resolves the next release date for a product line,
// honoring an explicit override.
func (e *Engine) ComputeReleaseDate(ctx context.Context, productLine, explicit string) (time.Time, error) {
	var latest *model.ReleaseHistoryEntry
	if explicit == "" {
		history, err := e.Advisories.ReleaseHistory(ctx, productLine)
		if err != nil {
			return time.Time{}, err
		}
		if len(history) > 0 {
			latest = &history[0]
		}
	}
	return NextReleaseDate(latest, explicit)
}

// AdvisoryParamsRequest collects the inputs for deriving a new advisory's
// creation parameters.
type AdvisoryParamsRequest struct {
	Synopsis    string
	Type        string
	ProductLine string
	// ExplicitDate overrides the computed release date when set.
	ExplicitDate string

	// TargetReleases drives tracker discovery when the impact should be
	// aggregated (security advisories).
	TargetReleases  []string
	AggregateImpact bool
}

// AdvisoryParams derives creation parameters for a new advisory: the next
// release date on the product line's cadence and, for security advisories,
// the impact aggregated from the open CVE trackers. Advisory creation
// itself belongs to the tracking service.
func (e *Engine) AdvisoryParams(ctx context.Context, req AdvisoryParamsRequest) (*model.CreateAdvisoryParams, error) {
	date, err := e.ComputeReleaseDate(ctx, req.ProductLine, req.ExplicitDate)
	if err != nil {
		return nil, err
	}

	params := &model.CreateAdvisoryParams{
		Synopsis:    req.Synopsis,
		Type:        req.Type,
		ReleaseDate: date,
	}

	if req.AggregateImpact {
		result, err := e.ResolveBugs(ctx, BugRequest{
			Mode:            ModeTrackers,
			TargetReleases:  req.TargetReleases,
			AdvisoryType:    req.Type,
			AggregateImpact: true,
		})
		if err != nil {
			return nil, err
		}
		params.Impact = result.Impact
	}
	return params, nil
}

// RepairRequest describes a bug status repair run. With no explicit IDs
// the bugs are swept by target release and the From statuses.
type RepairRequest struct {
	IDs            []int
	TargetReleases []string
	From           []model.BugStatus
	To             model.BugStatus
	Comment        string
	Private        bool
}

// RepairResult is the structured outcome of a repair run.
type RepairResult struct {
	Updated  []int    `json:"updated"`
	Skipped  []int    `json:"skipped,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// RepairBugs moves bugs from the From statuses to the To status. The
// remote update happens first; the cached record is only mutated after the
// service confirmed the change.
func (e *Engine) RepairBugs(ctx context.Context, req RepairRequest) (*RepairResult, error) {
	resolver := &BugResolver{Bugs: e.Bugs, Logger: e.Logger, Concurrency: e.Concurrency}

	var records []*model.BugRecord
	var err error
	if len(req.IDs) > 0 {
		records, err = resolver.ResolveManual(ctx, req.IDs)
	} else {
		records, _, err = resolver.ResolveSweep(ctx, req.TargetReleases, req.From)
	}
	if err != nil {
		return nil, err
	}

	from := make(map[model.BugStatus]bool, len(req.From))
	for _, s := range req.From {
		from[s] = true
	}

	result := &RepairResult{}
	for _, bug := range records {
		if len(from) > 0 && !from[bug.Status] {
			result.Skipped = append(result.Skipped, bug.ID)
			continue
		}
		if err := e.Bugs.SetBugStatus(ctx, bug.ID, req.To, req.Comment, req.Private); err != nil {
			e.Logger.Warn("bug status repair failed", zap.Int("bug", bug.ID), zap.Error(err))
			result.Failures = append(result.Failures, strconv.Itoa(bug.ID)+": "+err.Error())
			continue
		}
		bug.Status = req.To
		result.Updated = append(result.Updated, bug.ID)
	}
	return result, nil
}

var errUnknownMode = errors.New("unknown resolve mode")

func keyErrorMessages(failures []KeyError) []string {
	if len(failures) == 0 {
		return nil
	}
	out := make([]string, 0, len(failures))
	for _, f := range failures {
		out = append(out, f.Message())
	}
	return out
}
