package clients

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/internal/engine"
	"github.com/release-eng/advisory-sync/model"
)

// trackerKeyword marks a bug as a CVE tracker in the bug tracker.
const trackerKeyword = "SecurityTracking"

// BugClient talks to the bug tracker.
type BugClient struct {
	rest *restClient
}

// NewBugClient creates a bug tracker client from connection settings.
func NewBugClient(cfg Config, logger *zap.Logger) *BugClient {
	return &BugClient{rest: newRESTClient(cfg, logger.Named("bugzilla"))}
}

var _ engine.BugService = (*BugClient)(nil)

type bugSearchResponse struct {
	Bugs []struct {
		ID int `json:"id"`
	} `json:"bugs"`
}

// SearchBugs lists bug IDs matching the target releases and statuses.
func (c *BugClient) SearchBugs(ctx context.Context, targetReleases []string, statuses []model.BugStatus, trackersOnly bool) ([]int, error) {
	query := url.Values{}
	for _, tr := range targetReleases {
		query.Add("target_release", tr)
	}
	for _, s := range statuses {
		query.Add("status", string(s))
	}
	if trackersOnly {
		query.Set("keywords", trackerKeyword)
	}

	var resp bugSearchResponse
	if err := c.rest.getJSON(ctx, "/rest/bug", query, &resp); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(resp.Bugs))
	for _, b := range resp.Bugs {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

type bugResponse struct {
	Bugs []struct {
		ID            int      `json:"id"`
		Status        string   `json:"status"`
		Severity      string   `json:"severity"`
		Summary       string   `json:"summary"`
		TargetRelease []string `json:"target_release"`
		Keywords      []string `json:"keywords"`
		Flags         []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"flags"`
		OpenAdvisoryTypes []string `json:"open_advisory_types"`
	} `json:"bugs"`
}

// GetBug fetches and validates one bug. An unknown status in the response
// fails fast instead of propagating an unvalidated record.
func (c *BugClient) GetBug(ctx context.Context, id int) (*model.BugRecord, error) {
	var resp bugResponse
	if err := c.rest.getJSON(ctx, "/rest/bug/"+strconv.Itoa(id), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Bugs) == 0 {
		return nil, fmt.Errorf("bug %d: %w", id, ErrNotFound)
	}

	raw := resp.Bugs[0]
	status, err := model.ParseBugStatus(raw.Status)
	if err != nil {
		return nil, fmt.Errorf("bug %d: %w", id, err)
	}

	record := &model.BugRecord{
		ID:                     raw.ID,
		Status:                 status,
		Severity:               raw.Severity,
		Summary:                raw.Summary,
		TargetReleases:         raw.TargetRelease,
		AttachedToOpenAdvisory: len(raw.OpenAdvisoryTypes) > 0,
		OpenAdvisoryTypes:      raw.OpenAdvisoryTypes,
	}
	for _, kw := range raw.Keywords {
		if kw == trackerKeyword {
			record.IsTracker = true
		}
	}
	for _, f := range raw.Flags {
		record.SetFlag(f.Name, f.Status)
	}
	return record, nil
}

type bugUpdateRequest struct {
	Status  string          `json:"status,omitempty"`
	Comment *commentRequest `json:"comment,omitempty"`
	Flags   []flagRequest   `json:"flags,omitempty"`
}

type commentRequest struct {
	Body      string `json:"body"`
	IsPrivate bool   `json:"is_private"`
}

type flagRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SetBugStatus moves a bug to a new status with an optional comment.
func (c *BugClient) SetBugStatus(ctx context.Context, id int, status model.BugStatus, comment string, private bool) error {
	req := bugUpdateRequest{Status: string(status)}
	if comment != "" {
		req.Comment = &commentRequest{Body: comment, IsPrivate: private}
	}
	return c.rest.putJSON(ctx, "/rest/bug/"+strconv.Itoa(id), req)
}

// SetBugFlag sets one flag on a bug.
func (c *BugClient) SetBugFlag(ctx context.Context, id int, flag, value string) error {
	req := bugUpdateRequest{Flags: []flagRequest{{Name: flag, Status: value}}}
	return c.rest.putJSON(ctx, "/rest/bug/"+strconv.Itoa(id), req)
}
