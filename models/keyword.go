package models

type CreateKeywordRequest struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
}

type CreateKeywordResponse struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
	Created  bool   `json:"created"`
}

type GetKeywordsResponse struct {
	SearchMode string              `json:"searchMode"`
	Total      int                 `json:"total"`
	Keywords   map[string][]string `json:"keywords"`
}

type ReloadCatalogResponse struct {
	SearchMode string `json:"searchMode"`
	Categories int    `json:"categories"`
	Keywords   int    `json:"keywords"`
}
