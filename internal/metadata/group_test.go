package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadGroup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "group.yml"), `
name: openshift-3.7
candidate_tag: rhaos-3.7-rhel7-candidate
shipped_tags:
  - rhaos-3.7-rhel7
product_version: RHEL-7-OSE
target_releases:
  - "3.7.0"
  - "3.7.z"
advisory_type: RHBA
images:
  - openshift-enterprise-cli
non_release_images:
  - openshift-enterprise-base
`)

	group, err := LoadGroup(filepath.Join(dir, "group.yml"))
	require.NoError(t, err)

	assert.Equal(t, "openshift-3.7", group.Name)
	assert.Equal(t, "rhaos-3.7-rhel7-candidate", group.CandidateTag)
	assert.Equal(t, []string{"rhaos-3.7-rhel7"}, group.ShippedTags)
	assert.Equal(t, "RHEL-7-OSE", group.ProductVersion)
	assert.Equal(t, []string{"3.7.0", "3.7.z"}, group.TargetReleases)
	assert.Equal(t, "RHBA", group.AdvisoryType)
	assert.Equal(t, []string{"openshift-enterprise-cli"}, group.Images)
	assert.Equal(t, []string{"openshift-enterprise-base"}, group.NonReleaseImages)

	policy := group.Policy()
	assert.Equal(t, []string{"rhaos-3.7-rhel7"}, policy.ExcludeTags)
	assert.Equal(t, "rhaos-3.7-rhel7-candidate", policy.RequireTag)
}

func TestLoadGroup_MissingRequiredFields(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "noname.yml"), "candidate_tag: some-tag\n")
	_, err := LoadGroup(filepath.Join(dir, "noname.yml"))
	assert.ErrorContains(t, err, "name is required")

	writeFile(t, filepath.Join(dir, "notag.yml"), "name: some-group\n")
	_, err = LoadGroup(filepath.Join(dir, "notag.yml"))
	assert.ErrorContains(t, err, "candidate_tag is required")
}

func TestLoadGroup_FileMissing(t *testing.T) {
	_, err := LoadGroup(filepath.Join(t.TempDir(), "group.yml"))
	assert.Error(t, err)
}

func TestGroup_LoadImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "group.yml"), `
name: openshift-3.7
candidate_tag: candidate
images:
  - cli
  - base
`)
	writeFile(t, filepath.Join(dir, "cli", "config.yml"), `
repo:
  type: containers
tag: cli-candidate
`)
	writeFile(t, filepath.Join(dir, "base", "config.yml"), "{}\n")

	group, err := LoadGroup(filepath.Join(dir, "group.yml"))
	require.NoError(t, err)

	images, err := group.LoadImages()
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "containers", images[0].Type)
	assert.Equal(t, "cli-candidate", images[0].Tag)
	assert.Equal(t, "containers/cli", images[0].QualifiedName())

	assert.Equal(t, "rpms", images[1].Type, "repo type defaults to rpms")
	assert.Empty(t, images[1].Tag)
	assert.Equal(t, "rpms/base", images[1].QualifiedName())
}

func TestGroup_LoadImagesMissingConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "group.yml"), `
name: openshift-3.7
candidate_tag: candidate
images:
  - ghost
`)
	group, err := LoadGroup(filepath.Join(dir, "group.yml"))
	require.NoError(t, err)

	_, err = group.LoadImages()
	assert.ErrorContains(t, err, "ghost")
}
