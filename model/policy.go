package model

// EligibilityPolicy configures the filter rules applied to an enriched
// candidate set. The zero value excludes nothing.
type EligibilityPolicy struct {
	// ExcludeTags lists build-system tags whose presence makes a build
	// ineligible (the "shipped" tags).
	ExcludeTags []string `json:"exclude_tags,omitempty" yaml:"exclude_tags"`

	// RequireTag is the candidate tag a build must have been discovered
	// under, e.g. "rhaos-3.7-rhel7-candidate".
	RequireTag string `json:"require_tag,omitempty" yaml:"require_tag"`

	// ExcludeAttached drops builds and bugs already attached to an open
	// advisory. Automatic resolution always sets it; manual resolution
	// never does, since explicitly named items are assumed deliberate.
	ExcludeAttached bool `json:"exclude_attached" yaml:"exclude_attached"`

	// SameTypeOnly narrows the open-advisory attachment check to
	// advisories of the same type as the target instead of all types.
	SameTypeOnly bool `json:"same_type_only" yaml:"same_type_only"`

	// StatusWhitelist keeps only bugs in one of these states. Empty means
	// no status filtering.
	StatusWhitelist []BugStatus `json:"status_whitelist,omitempty" yaml:"status_whitelist"`
}

// AllowsStatus reports whether the whitelist admits the given status.
func (p *EligibilityPolicy) AllowsStatus(status BugStatus) bool {
	if len(p.StatusWhitelist) == 0 {
		return true
	}
	for _, s := range p.StatusWhitelist {
		if s == status {
			return true
		}
	}
	return false
}
