package engine

import (
	"fmt"

	"github.com/release-eng/advisory-sync/model"
	"github.com/release-eng/advisory-sync/util"
)

// Filter applies the eligibility rules to an enriched candidate set. Rules
// run in a fixed order and short-circuit to exclusion, never to error:
// shipped-tag exclusion, open-advisory attachment exclusion, then the bug
// status whitelist. Filtering is idempotent.
type Filter struct {
	policy model.EligibilityPolicy

	// advisoryType is the type of the target advisory, consulted only
	// when the policy narrows the attachment check to same-type
	// advisories.
	advisoryType string
}

// NewFilter validates the policy and builds a filter. An unknown status in
// the whitelist is a FilterPolicyError.
func NewFilter(policy model.EligibilityPolicy, advisoryType string) (*Filter, error) {
	for _, s := range policy.StatusWhitelist {
		if _, err := model.ParseBugStatus(string(s)); err != nil {
			return nil, &FilterPolicyError{Detail: fmt.Sprintf("status whitelist: %v", err)}
		}
	}
	return &Filter{policy: policy, advisoryType: advisoryType}, nil
}

// Builds returns the builds that pass every rule, in discovery order.
func (f *Filter) Builds(records []*model.BuildRecord) []*model.BuildRecord {
	out := make([]*model.BuildRecord, 0, len(records))
	for _, b := range records {
		if b.HasAnyTag(f.policy.ExcludeTags) {
			continue
		}
		if f.excludedByAttachment(b.AttachedToOpenAdvisory, b.OpenAdvisoryTypes) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Bugs returns the bugs that pass every rule, in discovery order.
func (f *Filter) Bugs(records []*model.BugRecord) []*model.BugRecord {
	out := make([]*model.BugRecord, 0, len(records))
	for _, b := range records {
		if f.excludedByAttachment(b.AttachedToOpenAdvisory, b.OpenAdvisoryTypes) {
			continue
		}
		if !f.policy.AllowsStatus(b.Status) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// excludedByAttachment applies the open-advisory attachment rule, narrowed
// to same-type advisories when the policy says so.
func (f *Filter) excludedByAttachment(attached bool, types []string) bool {
	if !f.policy.ExcludeAttached || !attached {
		return false
	}
	if f.policy.SameTypeOnly {
		return util.Contains(types, f.advisoryType)
	}
	return true
}
