package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNVR(t *testing.T) {
	c, err := ParseNVR("openshift-ansible-3.7.0-1.el7")
	require.NoError(t, err)
	assert.Equal(t, "openshift-ansible", c.Name)
	assert.Equal(t, "3.7.0", c.Version)
	assert.Equal(t, "1.el7", c.Release)
	assert.Equal(t, "openshift-ansible-3.7.0-1.el7", c.NVR())
}

func TestParseNVR_SimpleName(t *testing.T) {
	c, err := ParseNVR("bash-4.2.46-34.el7")
	require.NoError(t, err)
	assert.Equal(t, "bash", c.Name)
	assert.Equal(t, "4.2.46", c.Version)
	assert.Equal(t, "34.el7", c.Release)
}

func TestParseNVR_Malformed(t *testing.T) {
	for _, bad := range []string{"", "bash", "bash-4.2", "-4.2-1"} {
		_, err := ParseNVR(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
