package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/release-eng/advisory-sync/model"
)

func TestFilter_ShippedTagTakesPrecedence(t *testing.T) {
	policy := model.EligibilityPolicy{
		ExcludeTags: []string{"rhaos-3.7-rhel7"},
		RequireTag:  "rhaos-3.7-rhel7-candidate",
	}
	filter, err := NewFilter(policy, "")
	require.NoError(t, err)

	// Tagged both shipped and candidate: shipped wins, the build is out.
	both := &model.BuildRecord{NVR: "a-1.0-1", Tags: []string{"rhaos-3.7-rhel7", "rhaos-3.7-rhel7-candidate"}}
	candidateOnly := &model.BuildRecord{NVR: "b-1.0-1", Tags: []string{"rhaos-3.7-rhel7-candidate"}}

	kept := filter.Builds([]*model.BuildRecord{both, candidateOnly})
	require.Len(t, kept, 1)
	assert.Equal(t, "b-1.0-1", kept[0].NVR)
}

func TestFilter_AttachmentExclusion(t *testing.T) {
	attached := &model.BuildRecord{NVR: "a-1.0-1", AttachedToOpenAdvisory: true, OpenAdvisoryTypes: []string{"RHBA"}}
	free := &model.BuildRecord{NVR: "b-1.0-1"}

	filter, err := NewFilter(model.EligibilityPolicy{ExcludeAttached: true}, "")
	require.NoError(t, err)
	kept := filter.Builds([]*model.BuildRecord{attached, free})
	require.Len(t, kept, 1)
	assert.Equal(t, "b-1.0-1", kept[0].NVR)

	// Without the policy bit, attachment does not exclude.
	filter, err = NewFilter(model.EligibilityPolicy{}, "")
	require.NoError(t, err)
	assert.Len(t, filter.Builds([]*model.BuildRecord{attached, free}), 2)
}

func TestFilter_SameTypeOnlyAttachment(t *testing.T) {
	attachedToRHBA := &model.BuildRecord{NVR: "a-1.0-1", AttachedToOpenAdvisory: true, OpenAdvisoryTypes: []string{"RHBA"}}

	policy := model.EligibilityPolicy{ExcludeAttached: true, SameTypeOnly: true}

	rhsa, err := NewFilter(policy, "RHSA")
	require.NoError(t, err)
	assert.Len(t, rhsa.Builds([]*model.BuildRecord{attachedToRHBA}), 1,
		"attachment to a different advisory type must not exclude")

	rhba, err := NewFilter(policy, "RHBA")
	require.NoError(t, err)
	assert.Empty(t, rhba.Builds([]*model.BuildRecord{attachedToRHBA}))
}

func TestFilter_StatusWhitelist(t *testing.T) {
	policy := model.EligibilityPolicy{
		StatusWhitelist: []model.BugStatus{model.StatusModified, model.StatusVerified},
	}
	filter, err := NewFilter(policy, "")
	require.NoError(t, err)

	bugs := []*model.BugRecord{
		{ID: 1, Status: model.StatusModified},
		{ID: 2, Status: model.StatusNew},
		{ID: 3, Status: model.StatusVerified},
	}
	kept := filter.Bugs(bugs)
	require.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].ID)
	assert.Equal(t, 3, kept[1].ID)
}

func TestFilter_Idempotent(t *testing.T) {
	policy := model.EligibilityPolicy{
		ExcludeTags:     []string{"shipped"},
		ExcludeAttached: true,
		StatusWhitelist: []model.BugStatus{model.StatusModified},
	}
	filter, err := NewFilter(policy, "")
	require.NoError(t, err)

	builds := []*model.BuildRecord{
		{NVR: "a-1.0-1", Tags: []string{"shipped"}},
		{NVR: "b-1.0-1"},
		{NVR: "c-1.0-1", AttachedToOpenAdvisory: true},
	}
	once := filter.Builds(builds)
	twice := filter.Builds(once)
	assert.Equal(t, once, twice)

	bugs := []*model.BugRecord{
		{ID: 1, Status: model.StatusModified},
		{ID: 2, Status: model.StatusOnQA},
	}
	onceBugs := filter.Bugs(bugs)
	assert.Equal(t, onceBugs, filter.Bugs(onceBugs))
}

func TestNewFilter_RejectsUnknownStatus(t *testing.T) {
	_, err := NewFilter(model.EligibilityPolicy{
		StatusWhitelist: []model.BugStatus{"NOT_A_STATUS"},
	}, "")
	require.Error(t, err)

	var policyErr *FilterPolicyError
	assert.ErrorAs(t, err, &policyErr)
}
