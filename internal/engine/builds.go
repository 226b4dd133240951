package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/model"
	"github.com/release-eng/advisory-sync/util"
)

// BuildResolver derives and enriches the candidate build set for one run.
type BuildResolver struct {
	Builds      BuildService
	Logger      *zap.Logger
	Concurrency int
}

// ResolveManual resolves an explicit, ordered list of build identifiers.
// Manual input implies the caller expects every listed build to exist, so
// any single resolution failure is fatal and cancels the in-flight rest.
func (r *BuildResolver) ResolveManual(ctx context.Context, ids []model.BuildIdentifier, productVersion string) ([]*model.BuildRecord, error) {
	ids = dedupIdentifiers(ids)

	enricher := &Enricher[model.BuildIdentifier, *model.BuildRecord]{
		Concurrency: r.Concurrency,
		FailFast:    true,
	}
	records, failures, err := enricher.Run(ctx, ids,
		model.BuildIdentifier.Key,
		func(ctx context.Context, id model.BuildIdentifier) (*model.BuildRecord, error) {
			return r.Builds.GetBuild(ctx, id, productVersion)
		})
	if err != nil {
		return nil, &ResolutionError{Kind: "build", Identifier: failures[0].Key, Err: err}
	}
	return records, nil
}

// ResolveTagged discovers candidate builds by tag: everything under the
// candidate tag, minus anything already under a shipped tag, then enriched
// per NVR. Individual fetch failures are exclusions, not fatal; they come
// back as KeyErrors.
func (r *BuildResolver) ResolveTagged(ctx context.Context, candidateTag string, shippedTags []string, productVersion string) ([]*model.BuildRecord, []KeyError, error) {
	candidates, err := r.Builds.FindBuildsByTag(ctx, candidateTag)
	if err != nil {
		return nil, nil, &ResolutionError{Kind: "build", Identifier: candidateTag, Err: err}
	}

	shipped := make(map[string]bool)
	for _, tag := range shippedTags {
		builds, err := r.Builds.FindBuildsByTag(ctx, tag)
		if err != nil {
			return nil, nil, &ResolutionError{Kind: "build", Identifier: tag, Err: err}
		}
		for _, b := range builds {
			shipped[b.Key()] = true
		}
	}

	var eligible []model.BuildIdentifier
	for _, c := range dedupIdentifiers(candidates) {
		if shipped[c.Key()] {
			r.Logger.Debug("skipping shipped build", zap.String("nvr", c.Key()))
			continue
		}
		eligible = append(eligible, c)
	}

	return r.enrich(ctx, eligible, productVersion)
}

// ImageMember is one image whose latest build should be considered.
type ImageMember struct {
	Name string
	Tag  string
}

// ResolveImages resolves image candidates in two strictly sequential
// phases: first the latest build tuple for every image member, then the
// same per-NVR enrichment as the rpm path. Tuples whose name is in the
// non-release exclusion set are dropped between the phases.
func (r *BuildResolver) ResolveImages(ctx context.Context, members []ImageMember, exclude []string, productVersion string) ([]*model.BuildRecord, []KeyError, error) {
	enricher := &Enricher[ImageMember, model.BuildTuple]{Concurrency: r.Concurrency}
	tuples, failures, _ := enricher.Run(ctx, members,
		func(m ImageMember) string { return m.Name },
		func(ctx context.Context, m ImageMember) (model.BuildTuple, error) {
			return r.Builds.LatestBuild(ctx, m.Tag, m.Name)
		})

	var ids []model.BuildIdentifier
	for _, t := range tuples {
		if util.Contains(exclude, t.Name) {
			r.Logger.Debug("skipping non-release image", zap.String("name", t.Name))
			continue
		}
		ids = append(ids, model.BuildIdentifier{NVR: t.NVR()})
	}

	records, enrichFailures, err := r.enrich(ctx, dedupIdentifiers(ids), productVersion)
	return records, append(failures, enrichFailures...), err
}

// enrich fetches the full record for every identifier, collecting failures
// as exclusions.
func (r *BuildResolver) enrich(ctx context.Context, ids []model.BuildIdentifier, productVersion string) ([]*model.BuildRecord, []KeyError, error) {
	enricher := &Enricher[model.BuildIdentifier, *model.BuildRecord]{Concurrency: r.Concurrency}
	records, failures, err := enricher.Run(ctx, ids,
		model.BuildIdentifier.Key,
		func(ctx context.Context, id model.BuildIdentifier) (*model.BuildRecord, error) {
			return r.Builds.GetBuild(ctx, id, productVersion)
		})
	if err != nil {
		return nil, failures, err
	}
	if len(records) == 0 && len(failures) > 0 {
		return nil, failures, &EnrichmentError{Phase: "build enrichment", Failures: failures}
	}
	for _, f := range failures {
		r.Logger.Warn("excluding build after failed enrichment",
			zap.String("nvr", f.Key), zap.Error(f.Err))
	}
	return records, failures, nil
}

// dedupIdentifiers removes duplicate identifiers by natural key,
// first-seen wins, order preserved.
func dedupIdentifiers(ids []model.BuildIdentifier) []model.BuildIdentifier {
	seen := make(map[string]bool, len(ids))
	out := make([]model.BuildIdentifier, 0, len(ids))
	for _, id := range ids {
		if seen[id.Key()] {
			continue
		}
		seen[id.Key()] = true
		out = append(out, id)
	}
	return out
}
