package sweeps

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweepService struct {
	buildCalls []int
	bugCalls   []int
	group      string
	err        error
}

func (f *fakeSweepService) SweepBuilds(_ context.Context, group string, advisoryID int) (int, int, error) {
	f.group = group
	f.buildCalls = append(f.buildCalls, advisoryID)
	return 2, 1, f.err
}

func (f *fakeSweepService) SweepBugs(_ context.Context, group string, advisoryID int) (int, int, error) {
	f.group = group
	f.bugCalls = append(f.bugCalls, advisoryID)
	return 3, 0, f.err
}

type fakeNotifier struct {
	published []AdvisorySyncedEvent
	err       error
}

func (f *fakeNotifier) PublishAdvisorySynced(_ context.Context, advisoryID int, kind, group string, attached, alreadyAttached int) error {
	f.published = append(f.published, AdvisorySyncedEvent{
		AdvisoryID:      advisoryID,
		Kind:            kind,
		Group:           group,
		AttachedCount:   attached,
		AlreadyAttached: alreadyAttached,
	})
	return f.err
}

func encodeEvent(t *testing.T, event SweepRequestedEvent) []byte {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload
}

func TestHandleSweepRequested_Builds(t *testing.T) {
	service := &fakeSweepService{}
	notifier := &fakeNotifier{}

	msg := encodeEvent(t, SweepRequestedEvent{Kind: "builds", Group: "openshift-3.7", AdvisoryID: 42})
	err := HandleSweepRequested(context.Background(), msg, service, notifier)
	require.NoError(t, err)

	assert.Equal(t, []int{42}, service.buildCalls)
	assert.Equal(t, "openshift-3.7", service.group)
	require.Len(t, notifier.published, 1)
	assert.Equal(t, 42, notifier.published[0].AdvisoryID)
	assert.Equal(t, "builds", notifier.published[0].Kind)
	assert.Equal(t, 2, notifier.published[0].AttachedCount)
	assert.Equal(t, 1, notifier.published[0].AlreadyAttached)
}

func TestHandleSweepRequested_BugsResolveOnly(t *testing.T) {
	service := &fakeSweepService{}
	notifier := &fakeNotifier{}

	// Zero advisory means resolve only; nothing to announce.
	msg := encodeEvent(t, SweepRequestedEvent{Kind: "bugs", Group: "openshift-3.7"})
	err := HandleSweepRequested(context.Background(), msg, service, notifier)
	require.NoError(t, err)

	assert.Equal(t, []int{0}, service.bugCalls)
	assert.Empty(t, notifier.published)
}

func TestHandleSweepRequested_InvalidPayload(t *testing.T) {
	err := HandleSweepRequested(context.Background(), []byte("not json"), &fakeSweepService{}, nil)
	assert.ErrorContains(t, err, "unmarshal")
}

func TestHandleSweepRequested_MissingFields(t *testing.T) {
	msg := encodeEvent(t, SweepRequestedEvent{Kind: "builds"})
	err := HandleSweepRequested(context.Background(), msg, &fakeSweepService{}, nil)
	assert.ErrorContains(t, err, "missing required fields")
}

func TestHandleSweepRequested_UnknownKind(t *testing.T) {
	msg := encodeEvent(t, SweepRequestedEvent{Kind: "everything", Group: "openshift-3.7"})
	err := HandleSweepRequested(context.Background(), msg, &fakeSweepService{}, nil)
	assert.ErrorContains(t, err, "unknown sweep kind")
}

func TestHandleSweepRequested_SweepFailure(t *testing.T) {
	service := &fakeSweepService{err: errors.New("errata unreachable")}
	notifier := &fakeNotifier{}

	msg := encodeEvent(t, SweepRequestedEvent{Kind: "builds", Group: "openshift-3.7", AdvisoryID: 42})
	err := HandleSweepRequested(context.Background(), msg, service, notifier)
	require.Error(t, err)
	assert.Empty(t, notifier.published, "failed sweeps publish nothing")
}

func TestHandleSweepRequested_PublishFailureIsNotFatal(t *testing.T) {
	service := &fakeSweepService{}
	notifier := &fakeNotifier{err: errors.New("kafka down")}

	msg := encodeEvent(t, SweepRequestedEvent{Kind: "bugs", Group: "openshift-3.7", AdvisoryID: 7})
	err := HandleSweepRequested(context.Background(), msg, service, notifier)
	assert.NoError(t, err)
}
