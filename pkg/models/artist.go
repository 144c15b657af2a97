package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:ar"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	SortName  string    `json:"sort_name"`
	ArtworkID *int      `json:"artwork_id,omitempty"`

	Artwork *Artwork `bun:"rel:belongs-to,join:artwork_id=id" json:"artwork,omitempty"`
}
