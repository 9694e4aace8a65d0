// Package markers implements the grading-harness conventions for terminal
// markers: double-curly-brace spans embedded in page bodies and response
// values carrying the FLG substring. The conventions are reproduced exactly,
// not generalized.
package markers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var bracedPattern = regexp.MustCompile(`{{(.*?)}}`)

// ExtractBraced returns the contents of every {{...}} span in text, in
// document order. The braces themselves are stripped.
func ExtractBraced(text string) []string {
	matches := bracedPattern.FindAllStringSubmatch(text, -1)
	spans := make([]string, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, m[1])
	}
	return spans
}

// FindFlag scans a decoded JSON object for the first value whose string form
// contains "FLG". Keys are visited in sorted order so the result is stable.
func FindFlag(response map[string]any) (string, bool) {
	keys := make([]string, 0, len(response))
	for k := range response {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s := fmt.Sprint(response[k]); strings.Contains(s, "FLG") {
			return s, true
		}
	}
	return "", false
}
