package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/release-eng/advisory-sync/model"
	"github.com/release-eng/advisory-sync/util"
)

func TestBugResolver_ResolveManual(t *testing.T) {
	svc := &fakeBugService{bugs: map[int]*model.BugRecord{
		1: {ID: 1, Status: model.StatusModified},
		2: {ID: 2, Status: model.StatusVerified},
	}}
	resolver := &BugResolver{Bugs: svc, Logger: zap.NewNop()}

	records, err := resolver.ResolveManual(context.Background(), []int{1, 2, 1})
	require.NoError(t, err)
	require.Len(t, records, 2, "duplicate IDs collapse to one record")
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 2, records[1].ID)
}

func TestBugResolver_ResolveManualFailureIsFatal(t *testing.T) {
	boom := errors.New("bugzilla down")
	svc := &fakeBugService{
		bugs:    map[int]*model.BugRecord{1: {ID: 1}},
		failIDs: map[int]error{2: boom},
	}
	resolver := &BugResolver{Bugs: svc, Logger: zap.NewNop()}

	_, err := resolver.ResolveManual(context.Background(), []int{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "2", resErr.Identifier)
}

func TestBugResolver_ResolveSweepExcludesFailures(t *testing.T) {
	svc := &fakeBugService{
		searched: []int{10, 11, 12},
		bugs: map[int]*model.BugRecord{
			10: {ID: 10, Status: model.StatusModified},
			12: {ID: 12, Status: model.StatusVerified},
		},
		failIDs: map[int]error{11: errors.New("timeout")},
	}
	resolver := &BugResolver{Bugs: svc, Logger: zap.NewNop()}

	records, excluded, err := resolver.ResolveSweep(context.Background(), []string{"4.12.0"}, nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	require.Len(t, excluded, 1)
	assert.Equal(t, "11", excluded[0].Key)
}

func TestAggregateImpact(t *testing.T) {
	severities := []string{"low", "high", "medium"}
	assert.Equal(t, "high", util.MaxSeverity(severities))

	trackers := []*model.BugRecord{
		{ID: 1, Severity: "low", IsTracker: true},
		{ID: 2, Severity: "high", IsTracker: true},
		{ID: 3, Severity: "medium", IsTracker: true},
	}
	impact, err := AggregateImpact(trackers)
	require.NoError(t, err)
	assert.Equal(t, "Important", impact)
}

func TestAggregateImpact_CriticalWins(t *testing.T) {
	trackers := []*model.BugRecord{
		{ID: 1, Severity: "urgent"},
		{ID: 2, Severity: "low"},
	}
	impact, err := AggregateImpact(trackers)
	require.NoError(t, err)
	assert.Equal(t, "Critical", impact)
}

func TestAggregateImpact_EmptyTrackerSet(t *testing.T) {
	_, err := AggregateImpact(nil)
	assert.ErrorIs(t, err, ErrNoTrackersFound)
}
