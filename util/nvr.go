package util

import (
	"fmt"
	"strings"
)

// NVRComponents holds the parsed components of an NVR string.
type NVRComponents struct {
	Name    string
	Version string
	Release string
}

// ParseNVR parses a name-version-release string into its components.
// The release is everything after the last dash, the version everything
// after the second-to-last dash; the name may itself contain dashes.
// Example: "openshift-ansible-3.7.0-1.el7" -> ("openshift-ansible", "3.7.0", "1.el7")
func ParseNVR(nvr string) (NVRComponents, error) {
	relIdx := strings.LastIndex(nvr, "-")
	if relIdx <= 0 {
		return NVRComponents{}, fmt.Errorf("malformed NVR %q", nvr)
	}
	verIdx := strings.LastIndex(nvr[:relIdx], "-")
	if verIdx <= 0 {
		return NVRComponents{}, fmt.Errorf("malformed NVR %q", nvr)
	}
	return NVRComponents{
		Name:    nvr[:verIdx],
		Version: nvr[verIdx+1 : relIdx],
		Release: nvr[relIdx+1:],
	}, nil
}

// NVR renders the components back into their natural key.
func (c NVRComponents) NVR() string {
	return fmt.Sprintf("%s-%s-%s", c.Name, c.Version, c.Release)
}
