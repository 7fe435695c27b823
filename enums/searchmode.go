package enums

import "fmt"

type SearchMode string

const (
	SearchModeInvalid SearchMode = ""

	// SearchModeExact compiles whole keywords only.
	// For example, the keyword "대출DB" matches "대출 DB" and "대출디비" but not "대출" alone.
	SearchModeExact SearchMode = "exact"

	// SearchModePartial also compiles meaningful fragments of each keyword.
	// For example, the keyword "대출DB" additionally matches "대출" and "DB".
	SearchModePartial SearchMode = "partial"
)

func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case SearchModeExact, SearchModePartial:
		return SearchMode(s), nil
	}
	return SearchModeInvalid, fmt.Errorf("invalid search mode: %q", s)
}
