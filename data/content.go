package data

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

var leadingNoise = []string{"None", "null", "undefined"}

// NormalizeContent strips placeholder tokens a scraper may leave in front of
// the content and collapses whitespace runs.
func NormalizeContent(content string) string {
	content = strings.TrimSpace(content)
	for trimmed := true; trimmed; {
		trimmed = false
		for _, noise := range leadingNoise {
			if strings.HasPrefix(content, noise) {
				content = strings.TrimSpace(strings.TrimPrefix(content, noise))
				trimmed = true
			}
		}
	}
	return strings.Join(strings.Fields(content), " ")
}

// ContentHash identifies content regardless of placeholder noise and
// whitespace layout.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(NormalizeContent(content)))
	return hex.EncodeToString(sum[:])
}
