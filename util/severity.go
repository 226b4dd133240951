// Package util provides utility functions for the backend.
package util

import "strings"

// Severity ordering for tracker bugs, lowest to highest. The advisory-level
// impact is the maximum severity across all trackers.
var severityRank = map[string]int{
	"unspecified": 0,
	"low":         1,
	"medium":      2,
	"moderate":    2,
	"high":        3,
	"important":   3,
	"urgent":      4,
	"critical":    4,
}

// SeverityRank returns the ordinal position of a tracker severity on the
// fixed scale. Unknown severities rank lowest.
func SeverityRank(severity string) int {
	return severityRank[strings.ToLower(strings.TrimSpace(severity))]
}

// MaxSeverity returns the highest severity in the list, or "" for an empty
// list. Ties resolve to the first occurrence.
func MaxSeverity(severities []string) string {
	max := ""
	rank := -1
	for _, s := range severities {
		if r := SeverityRank(s); r > rank {
			rank = r
			max = s
		}
	}
	return max
}

// ImpactRating maps a tracker severity onto the advisory impact scale.
func ImpactRating(severity string) string {
	switch SeverityRank(severity) {
	case 1:
		return "Low"
	case 2:
		return "Moderate"
	case 3:
		return "Important"
	case 4:
		return "Critical"
	default:
		return "Low"
	}
}
