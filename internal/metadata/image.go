package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// defaultRepoType is assumed when an image config does not name one.
const defaultRepoType = "rpms"

// Image is the metadata leaf for one image member, read from the member's
// config.yml.
type Image struct {
	Name string
	Dir  string

	// Type is the distgit repo type, "rpms" unless configured otherwise.
	Type string

	// Tag overrides the group candidate tag for this image when set.
	Tag string
}

type imageConfig struct {
	Repo struct {
		Type string `yaml:"type"`
	} `yaml:"repo"`
	Tag string `yaml:"tag"`
}

// LoadImage reads an image member's config.yml from its directory.
func LoadImage(dir, name string) (*Image, error) {
	configPath := filepath.Join(dir, "config.yml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("image %s: unable to read configuration: %w", name, err)
	}

	var cfg imageConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("image %s: parsing %s: %w", name, configPath, err)
	}

	img := &Image{
		Name: name,
		Dir:  dir,
		Type: cfg.Repo.Type,
		Tag:  cfg.Tag,
	}
	if img.Type == "" {
		img.Type = defaultRepoType
	}
	return img, nil
}

// QualifiedName is the image's repo-qualified name, e.g. "rpms/my-image".
func (i *Image) QualifiedName() string {
	return i.Type + "/" + i.Name
}
