// Package model defines the typed records exchanged with the build system,
// bug tracker, and advisory tracking service.
package model

import (
	"fmt"
	"strings"
)

// BuildIdentifier names a build either by its NVR (name-version-release)
// string or by its numeric build-system ID. NVR is the natural key; the
// numeric ID is only set once the build has been resolved.
type BuildIdentifier struct {
	NVR string `json:"nvr,omitempty"`
	ID  int    `json:"id,omitempty"`
}

// ParseBuildIdentifier accepts either an NVR string or a numeric ID string.
func ParseBuildIdentifier(s string) (BuildIdentifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BuildIdentifier{}, fmt.Errorf("empty build identifier")
	}
	var id int
	if _, err := fmt.Sscanf(s, "%d", &id); err == nil && fmt.Sprintf("%d", id) == s {
		return BuildIdentifier{ID: id}, nil
	}
	return BuildIdentifier{NVR: s}, nil
}

// Key returns the lookup key used for deduplication: the NVR when present,
// otherwise the numeric ID rendered as a string.
func (b BuildIdentifier) Key() string {
	if b.NVR != "" {
		return b.NVR
	}
	return fmt.Sprintf("%d", b.ID)
}

func (b BuildIdentifier) String() string { return b.Key() }

// BuildRecord is a resolved build as reported by the build system at one
// point in time. Records are created only at the enrichment boundary and
// never mutated afterwards; every destructive action is performed against
// the live service, not against this cache.
type BuildRecord struct {
	NVR                    string   `json:"nvr"`
	ID                     int      `json:"id"`
	Name                   string   `json:"name"`
	Version                string   `json:"version"`
	Release                string   `json:"release"`
	ProductVersion         string   `json:"product_version,omitempty"`
	Tags                   []string `json:"tags,omitempty"`
	AttachedToOpenAdvisory bool     `json:"attached_to_open_advisory"`
	// OpenAdvisoryTypes lists the types of the open advisories the build
	// is attached to, for same-type-only attachment policies.
	OpenAdvisoryTypes []string `json:"open_advisory_types,omitempty"`
}

// HasTag reports whether the build carries the given build-system tag.
func (b *BuildRecord) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the build carries any of the given tags.
func (b *BuildRecord) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if b.HasTag(t) {
			return true
		}
	}
	return false
}

// Identifier returns the build's identifier with both keys populated.
func (b *BuildRecord) Identifier() BuildIdentifier {
	return BuildIdentifier{NVR: b.NVR, ID: b.ID}
}

// BuildTuple is the (name, version, release) triple reported as the latest
// build for an image member. It only exists between the two enrichment
// phases of image resolution.
type BuildTuple struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Release string `json:"release"`
}

// NVR renders the tuple as its natural key.
func (t BuildTuple) NVR() string {
	return fmt.Sprintf("%s-%s-%s", t.Name, t.Version, t.Release)
}
