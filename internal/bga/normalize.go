package bga

import (
	"regexp"
	"strings"
)

var (
	rePunct = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	reSpace = regexp.MustCompile(`\s+`)
)

// NormalizeName maps a game name to its resolution key: lowercase, no
// punctuation, single spaces. Alias table rows store keys produced here.
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	s = rePunct.ReplaceAllString(s, " ")
	s = reSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
