// Package metadata loads the product-line group configuration and
// per-image metadata from YAML files.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/release-eng/advisory-sync/model"
)

// Group describes one product line: the tags that drive candidate
// discovery, the bug target releases, and the image membership.
type Group struct {
	Name           string   `yaml:"name"`
	CandidateTag   string   `yaml:"candidate_tag"`
	ShippedTags    []string `yaml:"shipped_tags"`
	ProductVersion string   `yaml:"product_version"`
	TargetReleases []string `yaml:"target_releases"`
	AdvisoryType   string   `yaml:"advisory_type"`

	// Images lists the image member names; each has a directory of the
	// same name containing its config.yml.
	Images []string `yaml:"images"`

	// NonReleaseImages are image names excluded from candidate
	// resolution even when tagged.
	NonReleaseImages []string `yaml:"non_release_images"`

	dir string
}

// LoadGroup reads a group.yml and validates the fields candidate
// resolution depends on.
func LoadGroup(path string) (*Group, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group config: %w", err)
	}

	var group Group
	if err := yaml.Unmarshal(content, &group); err != nil {
		return nil, fmt.Errorf("parsing group config %s: %w", path, err)
	}

	if group.Name == "" {
		return nil, fmt.Errorf("group config %s: name is required", path)
	}
	if group.CandidateTag == "" {
		return nil, fmt.Errorf("group config %s: candidate_tag is required", path)
	}

	group.dir = filepath.Dir(path)
	return &group, nil
}

// Policy derives the eligibility policy encoded by the group's tags.
func (g *Group) Policy() model.EligibilityPolicy {
	return model.EligibilityPolicy{
		ExcludeTags: g.ShippedTags,
		RequireTag:  g.CandidateTag,
	}
}

// LoadImages loads the metadata for every image member.
func (g *Group) LoadImages() ([]*Image, error) {
	images := make([]*Image, 0, len(g.Images))
	for _, name := range g.Images {
		img, err := LoadImage(filepath.Join(g.dir, name), name)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}
