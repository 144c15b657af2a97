package search

import "github.com/cadenzafm/cadenza/pkg/models"

// GlobalSearchQuery contains query parameters for the global search endpoint.
type GlobalSearchQuery struct {
	Query string `query:"q" json:"q,omitempty"`
}

// GlobalSearchResponse groups results by resource type.
type GlobalSearchResponse struct {
	Songs   []*models.Song   `json:"songs"`
	Artists []*models.Artist `json:"artists"`
	Albums  []*models.Album  `json:"albums"`
	Genres  []*models.Genre  `json:"genres"`
}
