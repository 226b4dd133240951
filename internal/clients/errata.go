package clients

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/model"
)

// AdvisoryClient talks to the advisory tracking service.
type AdvisoryClient struct {
	rest *restClient
}

// NewAdvisoryClient creates an advisory tracking client from connection
// settings.
func NewAdvisoryClient(cfg Config, logger *zap.Logger) *AdvisoryClient {
	return &AdvisoryClient{rest: newRESTClient(cfg, logger.Named("errata"))}
}

var _ engine.AdvisoryService = (*AdvisoryClient)(nil)

// GetAdvisory fetches one advisory with its current attachment set.
func (c *AdvisoryClient) GetAdvisory(ctx context.Context, id int) (*model.AdvisoryHandle, error) {
	var handle model.AdvisoryHandle
	if err := c.rest.getJSON(ctx, "/api/v1/erratum/"+strconv.Itoa(id), nil, &handle); err != nil {
		return nil, err
	}
	return &handle, nil
}

type attachBuildsRequest struct {
	NVRs           []string          `json:"nvrs"`
	FileTypesByNVR map[string]string `json:"file_types_by_nvr,omitempty"`
}

// AttachBuilds attaches the full NVR set in one batched call. The service
// treats an already-attached NVR as a no-op.
func (c *AdvisoryClient) AttachBuilds(ctx context.Context, id int, nvrs []string, fileTypesByNVR map[string]string) error {
	req := attachBuildsRequest{NVRs: nvrs, FileTypesByNVR: fileTypesByNVR}
	return c.rest.postJSON(ctx, "/api/v1/erratum/"+strconv.Itoa(id)+"/add_builds", req, nil)
}

type attachBugsRequest struct {
	IDs []int `json:"ids"`
}

// AttachBugs attaches the full bug ID set in one batched call, idempotent
// like AttachBuilds.
func (c *AdvisoryClient) AttachBugs(ctx context.Context, id int, bugs []int) error {
	return c.rest.postJSON(ctx, "/api/v1/erratum/"+strconv.Itoa(id)+"/add_bugs", attachBugsRequest{IDs: bugs}, nil)
}

// Commit persists pending attachments on the advisory.
func (c *AdvisoryClient) Commit(ctx context.Context, id int) error {
	return c.rest.postJSON(ctx, "/api/v1/erratum/"+strconv.Itoa(id)+"/commit", nil, nil)
}

type advisoryListResponse struct {
	Advisories []model.AdvisoryHandle `json:"advisories"`
}

// ListOpenAdvisories lists open advisories, optionally narrowed by type
// and product line.
func (c *AdvisoryClient) ListOpenAdvisories(ctx context.Context, filter engine.AdvisoryFilter) ([]model.AdvisoryHandle, error) {
	query := url.Values{"open": {"1"}}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.ProductLine != "" {
		query.Set("product", filter.ProductLine)
	}
	var resp advisoryListResponse
	if err := c.rest.getJSON(ctx, "/api/v1/erratum", query, &resp); err != nil {
		return nil, err
	}
	return resp.Advisories, nil
}

type releaseHistoryResponse struct {
	Entries []model.ReleaseHistoryEntry `json:"entries"`
}

// ReleaseHistory returns prior advisories for a product line, most recent
// first as reported by the service.
func (c *AdvisoryClient) ReleaseHistory(ctx context.Context, productLine string) ([]model.ReleaseHistoryEntry, error) {
	var resp releaseHistoryResponse
	if err := c.rest.getJSON(ctx, "/api/v1/products/"+url.PathEscape(productLine)+"/release_history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}
