// Package services provides internal service implementations wiring the
// engine to the event surface.
package services

import (
	"context"
	"log"
	"path/filepath"

	"github.com/release-eng/advisory-sync/events/modules/sweeps"
	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/internal/metadata"
)

// SweepServiceWrapper implements sweeps.SweepService
type SweepServiceWrapper struct {
	Engine *engine.Engine

	// GroupDir is the directory holding one <group>/group.yml per
	// product line.
	GroupDir string
}

// SweepBuilds runs a tag-based build sweep for the group and, when an
// advisory is given, attaches and commits. This is the same pipeline the
// REST handlers drive; event-driven sweeps must not behave differently.
func (w *SweepServiceWrapper) SweepBuilds(ctx context.Context, groupName string, advisoryID int) (int, int, error) {
	group, err := w.loadGroup(groupName)
	if err != nil {
		return 0, 0, err
	}

	log.Printf("Worker: Processing build sweep for group %s", groupName)

	result, err := w.Engine.ResolveBuilds(ctx, engine.BuildRequest{
		Mode:           engine.ModeTagged,
		CandidateTag:   group.CandidateTag,
		ShippedTags:    group.ShippedTags,
		ProductVersion: group.ProductVersion,
		Policy:         group.Policy(),
		AdvisoryType:   group.AdvisoryType,
		AdvisoryID:     advisoryID,
	})
	if err != nil {
		return 0, 0, err
	}
	return outcomeCounts(result.Outcome)
}

// SweepBugs runs a status sweep for the group's target releases.
func (w *SweepServiceWrapper) SweepBugs(ctx context.Context, groupName string, advisoryID int) (int, int, error) {
	group, err := w.loadGroup(groupName)
	if err != nil {
		return 0, 0, err
	}

	log.Printf("Worker: Processing bug sweep for group %s", groupName)

	result, err := w.Engine.ResolveBugs(ctx, engine.BugRequest{
		Mode:           engine.ModeSweep,
		TargetReleases: group.TargetReleases,
		AdvisoryType:   group.AdvisoryType,
		AdvisoryID:     advisoryID,
	})
	if err != nil {
		return 0, 0, err
	}
	return outcomeCounts(result.Outcome)
}

func (w *SweepServiceWrapper) loadGroup(name string) (*metadata.Group, error) {
	return metadata.LoadGroup(filepath.Join(w.GroupDir, name, "group.yml"))
}

func outcomeCounts(outcome *engine.SyncOutcome) (int, int, error) {
	if outcome == nil {
		return 0, 0, nil
	}
	attached := len(outcome.AttachedNVRs) + len(outcome.AttachedBugs)
	return attached, len(outcome.AlreadyAttached), nil
}

// Ensure compile-time interface check
var _ sweeps.SweepService = (*SweepServiceWrapper)(nil)
