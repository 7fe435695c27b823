package detector

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
)

// Document is the supplementary keyword file. Both sections map a category
// to a list of phrases.
type Document struct {
	Keywords       map[string][]string `json:"illegal_keywords"`
	FalsePositives map[string][]string `json:"false_positive_keywords"`
}

// ReadDocument returns nil when path does not exist or cannot be read or
// parsed. Reading never fails the caller.
func ReadDocument(path string, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("keyword document not found", "path", path)
		} else {
			logger.Warn("read keyword document", "path", path, "error", err)
		}
		return nil
	}

	doc := ParseDocument(raw)
	if doc == nil {
		logger.Warn("keyword document is not a JSON object", "path", path)
	}
	return doc
}

// ParseDocument decodes each section independently. A section of the wrong
// shape is left empty, and a category whose value is not a list of strings
// is skipped. Content that is not a JSON object yields nil.
func ParseDocument(raw []byte) *Document {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil
	}

	return &Document{
		Keywords:       parseSection(top["illegal_keywords"]),
		FalsePositives: parseSection(top["false_positive_keywords"]),
	}
}

func parseSection(raw json.RawMessage) map[string][]string {
	out := make(map[string][]string)
	if len(raw) == 0 {
		return out
	}

	var byCategory map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byCategory); err != nil {
		return out
	}
	for cat, list := range byCategory {
		var phrases []string
		if err := json.Unmarshal(list, &phrases); err != nil {
			continue
		}
		out[cat] = phrases
	}
	return out
}
