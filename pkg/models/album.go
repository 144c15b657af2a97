package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Album struct {
	bun.BaseModel `bun:"table:albums,alias:al"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	SortName  string    `json:"sort_name"`
	Year      *int      `json:"year,omitempty"`
	ArtistID  int       `bun:",nullzero" json:"artist_id"`
	ArtworkID *int      `json:"artwork_id,omitempty"`

	Artist  *Artist  `bun:"rel:belongs-to,join:artist_id=id" json:"artist,omitempty"`
	Artwork *Artwork `bun:"rel:belongs-to,join:artwork_id=id" json:"artwork,omitempty"`
}
