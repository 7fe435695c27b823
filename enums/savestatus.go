package enums

type SaveStatus string

const (
	SaveInserted SaveStatus = "inserted"

	// SaveDuplicateURL means a result for the same URL is already stored.
	SaveDuplicateURL SaveStatus = "duplicate_url"

	// SaveDuplicateContent means the same content, after noise and whitespace
	// normalization, is already stored under another URL.
	SaveDuplicateContent SaveStatus = "duplicate_content"
)
