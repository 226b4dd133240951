package engine

import (
	"context"

	"github.com/release-eng/advisory-sync/model"
)

// BuildService is the build system surface the engine consumes. The
// implementation owns authentication, transport timeouts, and retries.
type BuildService interface {
	// FindBuildsByTag lists the builds currently carrying a tag.
	FindBuildsByTag(ctx context.Context, tag string) ([]model.BuildIdentifier, error)
	// GetBuild resolves one build, including its tag set and open-advisory
	// attachment state.
	GetBuild(ctx context.Context, id model.BuildIdentifier, productVersion string) (*model.BuildRecord, error)
	// LatestBuild returns the newest build tuple for a package under a tag.
	LatestBuild(ctx context.Context, tag, pkg string) (model.BuildTuple, error)
}

// BugService is the bug tracker surface the engine consumes.
type BugService interface {
	// SearchBugs lists bug IDs matching the target releases and statuses.
	// When trackersOnly is set, only CVE tracker bugs are returned.
	SearchBugs(ctx context.Context, targetReleases []string, statuses []model.BugStatus, trackersOnly bool) ([]int, error)
	GetBug(ctx context.Context, id int) (*model.BugRecord, error)
	SetBugStatus(ctx context.Context, id int, status model.BugStatus, comment string, private bool) error
	SetBugFlag(ctx context.Context, id int, flag, value string) error
}

// AdvisoryFilter narrows ListOpenAdvisories.
type AdvisoryFilter struct {
	Type        string
	ProductLine string
}

// AdvisoryService is the advisory tracking surface the engine consumes.
type AdvisoryService interface {
	GetAdvisory(ctx context.Context, id int) (*model.AdvisoryHandle, error)
	// AttachBuilds attaches the full NVR set in one batched call. Attaching
	// an already-attached NVR is a remote-side no-op.
	AttachBuilds(ctx context.Context, id int, nvrs []string, fileTypesByNVR map[string]string) error
	// AttachBugs attaches the full bug ID set in one batched call,
	// idempotent like AttachBuilds.
	AttachBugs(ctx context.Context, id int, bugs []int) error
	// Commit persists pending attachments.
	Commit(ctx context.Context, id int) error
	ListOpenAdvisories(ctx context.Context, filter AdvisoryFilter) ([]model.AdvisoryHandle, error)
	// ReleaseHistory returns prior advisories for a product line, most
	// recent first.
	ReleaseHistory(ctx context.Context, productLine string) ([]model.ReleaseHistoryEntry, error)
}
