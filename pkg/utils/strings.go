package utils

import "strings"

// SplitList splits a comma separated value, trimming each element and
// dropping empty ones. It returns nil when nothing remains.
func SplitList(v string) []string {
	var result []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}
