package scan

import (
	"context"
	"database/sql"

	"github.com/cadenzafm/cadenza/pkg/artworks"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Cleaner deletes library entities that nothing references anymore. Every
// method is idempotent: deleting an already-deleted row reports false with no
// error. Methods take a bun.IDB so they run inside whatever transaction
// triggered the orphan check.
type Cleaner struct {
	storage *artworks.Storage
	stats   *models.ScanResult
}

func NewCleaner(storage *artworks.Storage, stats *models.ScanResult) *Cleaner {
	return &Cleaner{storage: storage, stats: stats}
}

// DeleteGenreIfUnused removes the genre when no song references it, then
// checks its artwork.
func (c *Cleaner) DeleteGenreIfUnused(ctx context.Context, db bun.IDB, genreID int) (bool, error) {
	genre := &models.Genre{}
	err := db.NewSelect().Model(genre).Where("g.id = ?", genreID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}

	count, err := db.NewSelect().
		Model((*models.Song)(nil)).
		Where("s.genre_id = ?", genreID).
		Count(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = db.NewDelete().Model(genre).WherePK().Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	c.stats.DeletedGenres++

	if genre.ArtworkID != nil {
		if _, err := c.DeleteArtworkIfUnused(ctx, db, *genre.ArtworkID); err != nil {
			return false, err
		}
	}

	return true, nil
}

// DeleteAlbumIfUnused removes the album when no song references it, then
// checks its artist and artwork.
func (c *Cleaner) DeleteAlbumIfUnused(ctx context.Context, db bun.IDB, albumID int) (bool, error) {
	album := &models.Album{}
	err := db.NewSelect().Model(album).Where("al.id = ?", albumID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}

	count, err := db.NewSelect().
		Model((*models.Song)(nil)).
		Where("s.album_id = ?", albumID).
		Count(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = db.NewDelete().Model(album).WherePK().Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	c.stats.DeletedAlbums++

	if _, err := c.DeleteArtistIfUnused(ctx, db, album.ArtistID); err != nil {
		return false, err
	}
	if album.ArtworkID != nil {
		if _, err := c.DeleteArtworkIfUnused(ctx, db, *album.ArtworkID); err != nil {
			return false, err
		}
	}

	return true, nil
}

// DeleteArtistIfUnused removes the artist when no album references it, then
// checks its artwork.
func (c *Cleaner) DeleteArtistIfUnused(ctx context.Context, db bun.IDB, artistID int) (bool, error) {
	artist := &models.Artist{}
	err := db.NewSelect().Model(artist).Where("ar.id = ?", artistID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}

	count, err := db.NewSelect().
		Model((*models.Album)(nil)).
		Where("al.artist_id = ?", artistID).
		Count(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if count > 0 {
		return false, nil
	}

	_, err = db.NewDelete().Model(artist).WherePK().Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	c.stats.DeletedArtists++

	if artist.ArtworkID != nil {
		if _, err := c.DeleteArtworkIfUnused(ctx, db, *artist.ArtworkID); err != nil {
			return false, err
		}
	}

	return true, nil
}

// DeleteArtworkIfUnused removes the artwork row and its stored blob when no
// song, album, artist, or genre references it.
func (c *Cleaner) DeleteArtworkIfUnused(ctx context.Context, db bun.IDB, artworkID int) (bool, error) {
	artwork := &models.Artwork{}
	err := db.NewSelect().Model(artwork).Where("aw.id = ?", artworkID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}

	used, err := c.artworkInUse(ctx, db, artworkID)
	if err != nil {
		return false, err
	}
	if used {
		return false, nil
	}

	_, err = db.NewDelete().Model(artwork).WherePK().Exec(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	c.stats.DeletedArtworks++

	if err := c.storage.Delete(artwork.Checksum); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Cleaner) artworkInUse(ctx context.Context, db bun.IDB, artworkID int) (bool, error) {
	for _, model := range []interface{}{
		(*models.Song)(nil),
		(*models.Album)(nil),
		(*models.Artist)(nil),
		(*models.Genre)(nil),
	} {
		count, err := db.NewSelect().
			Model(model).
			Where("artwork_id = ?", artworkID).
			Count(ctx)
		if err != nil {
			return false, errors.WithStack(err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
