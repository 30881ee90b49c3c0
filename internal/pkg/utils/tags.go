package utils

import (
	"encoding/json"
	"strings"
)

// TagsToString converts []string to a JSON string for the tags column.
func TagsToString(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(tags)
	return string(data)
}

// StringToTags converts a tags column back to []string. Legacy rows hold a
// comma separated list instead of JSON.
func StringToTags(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		tags = strings.Split(s, ",")
	}
	out := tags[:0]
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports whether the tags column contains tag, ignoring case.
func HasTag(s, tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range StringToTags(s) {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
