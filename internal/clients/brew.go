package clients

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/model"
)

// BuildClient talks to the build system.
type BuildClient struct {
	rest *restClient
}

// NewBuildClient creates a build system client from connection settings.
func NewBuildClient(cfg Config, logger *zap.Logger) *BuildClient {
	return &BuildClient{rest: newRESTClient(cfg, logger.Named("brew"))}
}

var _ engine.BuildService = (*BuildClient)(nil)

type taggedBuildsResponse struct {
	Builds []struct {
		NVR string `json:"nvr"`
		ID  int    `json:"id"`
	} `json:"builds"`
}

// FindBuildsByTag lists the builds currently carrying a tag.
func (c *BuildClient) FindBuildsByTag(ctx context.Context, tag string) ([]model.BuildIdentifier, error) {
	var resp taggedBuildsResponse
	if err := c.rest.getJSON(ctx, "/api/v1/tags/"+url.PathEscape(tag)+"/builds", nil, &resp); err != nil {
		return nil, err
	}
	ids := make([]model.BuildIdentifier, 0, len(resp.Builds))
	for _, b := range resp.Builds {
		ids = append(ids, model.BuildIdentifier{NVR: b.NVR, ID: b.ID})
	}
	return ids, nil
}

type buildResponse struct {
	NVR               string   `json:"nvr"`
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	Release           string   `json:"release"`
	Tags              []string `json:"tags"`
	OpenAdvisoryTypes []string `json:"open_advisory_types"`
}

// GetBuild resolves one build. Missing identity fields in the response are
// an error rather than a half-populated record.
func (c *BuildClient) GetBuild(ctx context.Context, id model.BuildIdentifier, productVersion string) (*model.BuildRecord, error) {
	query := url.Values{}
	if productVersion != "" {
		query.Set("product_version", productVersion)
	}
	var resp buildResponse
	if err := c.rest.getJSON(ctx, "/api/v1/builds/"+url.PathEscape(id.Key()), query, &resp); err != nil {
		return nil, err
	}
	if resp.NVR == "" || resp.ID == 0 {
		return nil, fmt.Errorf("build %s: incomplete record in response", id.Key())
	}
	return &model.BuildRecord{
		NVR:                    resp.NVR,
		ID:                     resp.ID,
		Name:                   resp.Name,
		Version:                resp.Version,
		Release:                resp.Release,
		ProductVersion:         productVersion,
		Tags:                   resp.Tags,
		AttachedToOpenAdvisory: len(resp.OpenAdvisoryTypes) > 0,
		OpenAdvisoryTypes:      resp.OpenAdvisoryTypes,
	}, nil
}

type latestBuildResponse struct {
	Builds []model.BuildTuple `json:"builds"`
}

// LatestBuild returns the newest build tuple for a package under a tag.
// When the service reports more than one, the highest parseable version
// wins, falling back to string order for non-semver versions.
func (c *BuildClient) LatestBuild(ctx context.Context, tag, pkg string) (model.BuildTuple, error) {
	query := url.Values{"package": {pkg}}
	var resp latestBuildResponse
	if err := c.rest.getJSON(ctx, "/api/v1/tags/"+url.PathEscape(tag)+"/latest", query, &resp); err != nil {
		return model.BuildTuple{}, err
	}
	if len(resp.Builds) == 0 {
		return model.BuildTuple{}, fmt.Errorf("package %s: %w", pkg, ErrNotFound)
	}

	latest := resp.Builds[0]
	for _, t := range resp.Builds[1:] {
		if tupleNewer(t, latest) {
			latest = t
		}
	}
	return latest, nil
}

// tupleNewer reports whether a's version sorts after b's.
func tupleNewer(a, b model.BuildTuple) bool {
	av, aerr := semver.NewVersion(a.Version)
	bv, berr := semver.NewVersion(b.Version)
	if aerr == nil && berr == nil {
		return av.GreaterThan(bv)
	}
	return a.Version > b.Version
}
