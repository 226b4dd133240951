package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityRank(t *testing.T) {
	assert.Equal(t, 0, SeverityRank("unspecified"))
	assert.Equal(t, 0, SeverityRank("no-such-severity"))
	assert.Equal(t, 1, SeverityRank("low"))
	assert.Equal(t, 2, SeverityRank("medium"))
	assert.Equal(t, 2, SeverityRank("moderate"))
	assert.Equal(t, 3, SeverityRank("high"))
	assert.Equal(t, 3, SeverityRank("important"))
	assert.Equal(t, 4, SeverityRank("urgent"))
	assert.Equal(t, 4, SeverityRank("critical"))
	assert.Equal(t, 3, SeverityRank("  High "), "rank is case and whitespace insensitive")
}

func TestMaxSeverity(t *testing.T) {
	assert.Equal(t, "high", MaxSeverity([]string{"low", "high", "medium"}))
	assert.Equal(t, "urgent", MaxSeverity([]string{"urgent", "critical"}),
		"equal ranks resolve to the first occurrence")
	assert.Equal(t, "", MaxSeverity(nil))
}

func TestImpactRating(t *testing.T) {
	assert.Equal(t, "Low", ImpactRating("low"))
	assert.Equal(t, "Low", ImpactRating("unspecified"))
	assert.Equal(t, "Moderate", ImpactRating("medium"))
	assert.Equal(t, "Important", ImpactRating("high"))
	assert.Equal(t, "Critical", ImpactRating("urgent"))
}
