package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/release-eng/advisory-sync/model"
)

// fakeBuildService serves builds from in-memory maps.
type fakeBuildService struct {
	mu       sync.Mutex
	tagged   map[string][]model.BuildIdentifier
	builds   map[string]*model.BuildRecord
	latest   map[string]model.BuildTuple
	failNVRs map[string]error
	calls    int
}

func (f *fakeBuildService) FindBuildsByTag(_ context.Context, tag string) ([]model.BuildIdentifier, error) {
	return f.tagged[tag], nil
}

func (f *fakeBuildService) GetBuild(_ context.Context, id model.BuildIdentifier, _ string) (*model.BuildRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.failNVRs[id.Key()]; ok {
		return nil, err
	}
	build, ok := f.builds[id.Key()]
	if !ok {
		return nil, fmt.Errorf("build %s not found", id.Key())
	}
	copied := *build
	return &copied, nil
}

func (f *fakeBuildService) LatestBuild(_ context.Context, tag, pkg string) (model.BuildTuple, error) {
	tuple, ok := f.latest[tag+"/"+pkg]
	if !ok {
		return model.BuildTuple{}, fmt.Errorf("no build for %s in %s", pkg, tag)
	}
	return tuple, nil
}

// fakeBugService serves bugs from in-memory maps and records mutations.
type fakeBugService struct {
	mu         sync.Mutex
	searched   []int
	bugs       map[int]*model.BugRecord
	failIDs    map[int]error
	failFlags  map[int]error
	statusSets map[int]model.BugStatus
	flagSets   map[int][]string
}

func (f *fakeBugService) SearchBugs(_ context.Context, _ []string, _ []model.BugStatus, _ bool) ([]int, error) {
	return f.searched, nil
}

func (f *fakeBugService) GetBug(_ context.Context, id int) (*model.BugRecord, error) {
	if err, ok := f.failIDs[id]; ok {
		return nil, err
	}
	bug, ok := f.bugs[id]
	if !ok {
		return nil, fmt.Errorf("bug %d not found", id)
	}
	copied := *bug
	return &copied, nil
}

func (f *fakeBugService) SetBugStatus(_ context.Context, id int, status model.BugStatus, _ string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failIDs[id]; ok {
		return err
	}
	if f.statusSets == nil {
		f.statusSets = make(map[int]model.BugStatus)
	}
	f.statusSets[id] = status
	return nil
}

func (f *fakeBugService) SetBugFlag(_ context.Context, id int, flag, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFlags[id]; ok {
		return err
	}
	if f.flagSets == nil {
		f.flagSets = make(map[int][]string)
	}
	f.flagSets[id] = append(f.flagSets[id], flag)
	return nil
}

// fakeAdvisoryService records attach and commit calls.
type fakeAdvisoryService struct {
	advisory      *model.AdvisoryHandle
	history       []model.ReleaseHistoryEntry
	open          []model.AdvisoryHandle
	attachedNVRs  [][]string
	attachedBugs  [][]int
	commits       int
	attachErr     error
	commitErr     error
}

func (f *fakeAdvisoryService) GetAdvisory(_ context.Context, id int) (*model.AdvisoryHandle, error) {
	if f.advisory == nil {
		return nil, fmt.Errorf("advisory %d not found", id)
	}
	copied := *f.advisory
	return &copied, nil
}

func (f *fakeAdvisoryService) AttachBuilds(_ context.Context, _ int, nvrs []string, _ map[string]string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attachedNVRs = append(f.attachedNVRs, nvrs)
	return nil
}

func (f *fakeAdvisoryService) AttachBugs(_ context.Context, _ int, bugs []int) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attachedBugs = append(f.attachedBugs, bugs)
	return nil
}

func (f *fakeAdvisoryService) Commit(_ context.Context, _ int) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits++
	return nil
}

func (f *fakeAdvisoryService) ListOpenAdvisories(_ context.Context, _ AdvisoryFilter) ([]model.AdvisoryHandle, error) {
	return f.open, nil
}

func (f *fakeAdvisoryService) ReleaseHistory(_ context.Context, _ string) ([]model.ReleaseHistoryEntry, error) {
	return f.history, nil
}
