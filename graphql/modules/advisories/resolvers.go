// Package advisories implements the resolvers for advisory queries.
package advisories

import (
	"context"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/model"
)

// advisoryView flattens an AdvisoryHandle for GraphQL field resolution.
type advisoryView struct {
	ID           int      `json:"id"`
	Type         string   `json:"type"`
	Synopsis     string   `json:"synopsis"`
	State        string   `json:"state"`
	ReleaseDate  string   `json:"release_date"`
	AttachedNVRs []string `json:"attached_nvrs"`
	AttachedBugs []int    `json:"attached_bugs"`
}

func viewOf(a *model.AdvisoryHandle) advisoryView {
	view := advisoryView{
		ID:           a.ID,
		Type:         a.Type,
		Synopsis:     a.Synopsis,
		State:        a.State,
		AttachedNVRs: a.AttachedNVRs,
		AttachedBugs: a.AttachedBugs,
	}
	if !a.ReleaseDate.IsZero() {
		view.ReleaseDate = a.ReleaseDate.Format(engine.ReleaseDateFormat)
	}
	return view
}

// ResolveAdvisory fetches one advisory by ID.
func ResolveAdvisory(ctx context.Context, eng *engine.Engine, id int) (interface{}, error) {
	advisory, err := eng.Advisories.GetAdvisory(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(advisory), nil
}

// ResolveOpenAdvisories lists open advisories matching the filter.
func ResolveOpenAdvisories(ctx context.Context, eng *engine.Engine, filter engine.AdvisoryFilter) (interface{}, error) {
	advisories, err := eng.Advisories.ListOpenAdvisories(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]advisoryView, 0, len(advisories))
	for i := range advisories {
		views = append(views, viewOf(&advisories[i]))
	}
	return views, nil
}

// ResolveReleaseHistory lists prior releases for a product line.
func ResolveReleaseHistory(ctx context.Context, eng *engine.Engine, group string) (interface{}, error) {
	history, err := eng.Advisories.ReleaseHistory(ctx, group)
	if err != nil {
		return nil, err
	}
	views := make([]map[string]interface{}, 0, len(history))
	for _, entry := range history {
		views = append(views, map[string]interface{}{
			"synopsis":     entry.Synopsis,
			"release_date": entry.ReleaseDate.Format(engine.ReleaseDateFormat),
		})
	}
	return views, nil
}

// ResolveNextReleaseDate computes the next release date for a product line.
func ResolveNextReleaseDate(ctx context.Context, eng *engine.Engine, group, explicit string) (interface{}, error) {
	date, err := eng.ComputeReleaseDate(ctx, group, explicit)
	if err != nil {
		return nil, err
	}
	return date.Format(engine.ReleaseDateFormat), nil
}
