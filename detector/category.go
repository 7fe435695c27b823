package detector

import (
	"fmt"
	"strings"
	"unicode"
)

const maxCategoryLen = 64

// Category identifies a keyword category such as "personal_db".
type Category string

// ParseCategory validates a category identifier read from a catalog source.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("category is empty")
	}
	if len(s) > maxCategoryLen {
		return "", fmt.Errorf("category %q is longer than %d bytes", s, maxCategoryLen)
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", fmt.Errorf("category %q contains whitespace or control characters", s)
		}
	}
	return Category(s), nil
}

func (c Category) String() string {
	return string(c)
}
