package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	// ArtworkSourceFile means the artwork came from a standalone image file.
	// A file-sourced artwork must correspond to a live, unmodified file or it
	// becomes a cleanup candidate.
	ArtworkSourceFile = "file"
	// ArtworkSourceEmbedded means the artwork was extracted from an audio
	// file's tags.
	ArtworkSourceEmbedded = "embedded"
)

type Artwork struct {
	bun.BaseModel `bun:"table:artworks,alias:aw"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Checksum     string `bun:",nullzero" json:"checksum"`
	MimeType     string `bun:",nullzero" json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	SourceScheme string `bun:",nullzero" json:"source_scheme"`
	SourcePath   string `bun:",nullzero" json:"source_path"`
	// SourceDate is the source file's modification time when the artwork was
	// stored. A newer on-disk mtime marks the row stale.
	SourceDate time.Time `json:"source_date"`
}
