package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Song is the unit of reconciliation during a scan. Path is the unique key:
// a path identifies at most one song.
type Song struct {
	bun.BaseModel `bun:"table:songs,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Path            string  `bun:",nullzero" json:"path"`
	MimeType        string  `bun:",nullzero" json:"mime_type"`
	FileType        string  `bun:",nullzero" json:"file_type"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds int64   `json:"duration_seconds"`
	BitRate         int64   `json:"bit_rate"`
	BitRateVariable bool    `json:"bit_rate_variable"`
	DiscNumber      *int    `json:"disc_number,omitempty"`
	DiscCount       *int    `json:"disc_count,omitempty"`
	TrackNumber     *int    `json:"track_number,omitempty"`
	TrackCount      *int    `json:"track_count,omitempty"`
	Name            *string `json:"name,omitempty"`
	ArtistName      *string `json:"artist_name,omitempty"`
	AlbumArtistName *string `json:"album_artist_name,omitempty"`
	GenreName       *string `json:"genre_name,omitempty"`

	AlbumID   int  `bun:",nullzero" json:"album_id"`
	GenreID   int  `bun:",nullzero" json:"genre_id"`
	ArtworkID *int `json:"artwork_id,omitempty"`

	Album   *Album   `bun:"rel:belongs-to,join:album_id=id" json:"album,omitempty"`
	Genre   *Genre   `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
	Artwork *Artwork `bun:"rel:belongs-to,join:artwork_id=id" json:"artwork,omitempty"`
}
