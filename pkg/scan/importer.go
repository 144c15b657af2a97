package scan

import (
	"context"
	"database/sql"
	"time"

	"github.com/cadenzafm/cadenza/pkg/filetree"
	"github.com/cadenzafm/cadenza/pkg/mediafile"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/cadenzafm/cadenza/pkg/sortname"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Names used when a file carries no tag for the grouping entity. Grouping
// untagged files together beats inventing one group per file.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
	UnknownGenre  = "Unknown Genre"
)

// ArtworkFinder resolves artwork for an audio file. The bool reports whether
// the artwork row was created by the call.
type ArtworkFinder interface {
	Find(ctx context.Context, audioNode *filetree.AudioNode) (*models.Artwork, bool, error)
}

// Importer reconciles one audio file's metadata into the library. Each import
// runs in its own transaction: the song, its find-or-create parents, and any
// orphan cleanup from identity changes commit or roll back together.
type Importer struct {
	db      *bun.DB
	finder  ArtworkFinder
	cleaner *Cleaner
	stats   *models.ScanResult
}

func NewImporter(db *bun.DB, finder ArtworkFinder, cleaner *Cleaner, stats *models.ScanResult) *Importer {
	return &Importer{db: db, finder: finder, cleaner: cleaner, stats: stats}
}

// ImportAudioData creates or updates the song for one audio file. A file
// whose stored record already matches is skipped without touching the
// database.
func (imp *Importer) ImportAudioData(ctx context.Context, audioNode *filetree.AudioNode, meta *mediafile.Metadata) (*models.Song, error) {
	var song *models.Song

	err := imp.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		song, err = imp.importInTx(ctx, tx, audioNode, meta)
		return err
	})
	if err != nil {
		return nil, err
	}

	imp.stats.ProcessedAudioFiles++
	imp.stats.SongSizeBytes += meta.SizeBytes

	return song, nil
}

func (imp *Importer) importInTx(ctx context.Context, tx bun.Tx, audioNode *filetree.AudioNode, meta *mediafile.Metadata) (*models.Song, error) {
	existing := &models.Song{}
	err := tx.NewSelect().Model(existing).Where("s.path = ?", meta.Path).Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(err)
		}
		existing = nil
	}

	artwork, artworkCreated, err := imp.finder.Find(ctx, audioNode)
	if err != nil {
		return nil, err
	}
	if artworkCreated {
		imp.stats.CreatedArtworks++
		imp.stats.ArtworkSizeBytes += artwork.SizeBytes
	}

	// The album artist tag wins over the track artist for grouping.
	artistName := UnknownArtist
	if meta.AlbumArtist != nil {
		artistName = *meta.AlbumArtist
	} else if meta.Artist != nil {
		artistName = *meta.Artist
	}
	albumName := UnknownAlbum
	if meta.Album != nil {
		albumName = *meta.Album
	}
	genreName := UnknownGenre
	if meta.Genre != nil {
		genreName = *meta.Genre
	}

	artist, err := imp.findOrCreateArtist(ctx, tx, artistName)
	if err != nil {
		return nil, err
	}
	album, err := imp.findOrCreateAlbum(ctx, tx, albumName, artist.ID, meta.Year)
	if err != nil {
		return nil, err
	}
	genre, err := imp.findOrCreateGenre(ctx, tx, genreName)
	if err != nil {
		return nil, err
	}

	if artwork != nil {
		if err := imp.backfillArtwork(ctx, tx, artist, album, genre, artwork.ID); err != nil {
			return nil, err
		}
	}

	song := &models.Song{
		Path:            meta.Path,
		MimeType:        meta.MimeType,
		FileType:        meta.FileType,
		SizeBytes:       meta.SizeBytes,
		DurationSeconds: meta.DurationSeconds,
		BitRate:         meta.BitRate,
		BitRateVariable: meta.BitRateVariable,
		DiscNumber:      meta.DiscNumber,
		DiscCount:       meta.DiscCount,
		TrackNumber:     meta.TrackNumber,
		TrackCount:      meta.TrackCount,
		Name:            meta.Title,
		ArtistName:      meta.Artist,
		AlbumArtistName: meta.AlbumArtist,
		GenreName:       meta.Genre,
		AlbumID:         album.ID,
		GenreID:         genre.ID,
	}
	if artwork != nil {
		song.ArtworkID = &artwork.ID
	}

	now := time.Now()
	if existing == nil {
		song.CreatedAt = now
		song.UpdatedAt = now
		if _, err := tx.NewInsert().Model(song).Returning("*").Exec(ctx); err != nil {
			return nil, errors.WithStack(err)
		}
		imp.stats.CreatedSongs++
		return song, nil
	}

	if songMatches(existing, song) {
		// Nothing changed on disk. Skip the write entirely.
		return existing, nil
	}

	song.ID = existing.ID
	song.CreatedAt = existing.CreatedAt
	song.UpdatedAt = now
	if _, err := tx.NewUpdate().Model(song).ExcludeColumn("created_at").WherePK().Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	imp.stats.UpdatedSongs++

	// Identity changes may have orphaned the previous parents. Check them in
	// the same transaction so a concurrent scan can't observe a half-moved
	// song.
	if existing.AlbumID != song.AlbumID {
		if _, err := imp.cleaner.DeleteAlbumIfUnused(ctx, tx, existing.AlbumID); err != nil {
			return nil, err
		}
	}
	if existing.GenreID != song.GenreID {
		if _, err := imp.cleaner.DeleteGenreIfUnused(ctx, tx, existing.GenreID); err != nil {
			return nil, err
		}
	}
	if existing.ArtworkID != nil && !equalIntPtr(existing.ArtworkID, song.ArtworkID) {
		if _, err := imp.cleaner.DeleteArtworkIfUnused(ctx, tx, *existing.ArtworkID); err != nil {
			return nil, err
		}
	}

	return song, nil
}

func (imp *Importer) findOrCreateArtist(ctx context.Context, tx bun.Tx, name string) (*models.Artist, error) {
	artist := &models.Artist{}
	err := tx.NewSelect().Model(artist).Where("ar.name = ?", name).Scan(ctx)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	artist = &models.Artist{Name: name, SortName: sortname.ForName(name), CreatedAt: now, UpdatedAt: now}
	if _, err := tx.NewInsert().Model(artist).Returning("*").Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	imp.stats.CreatedArtists++
	return artist, nil
}

func (imp *Importer) findOrCreateAlbum(ctx context.Context, tx bun.Tx, name string, artistID int, year *int) (*models.Album, error) {
	album := &models.Album{}
	err := tx.NewSelect().
		Model(album).
		Where("al.name = ?", name).
		Where("al.artist_id = ?", artistID).
		Scan(ctx)
	if err == nil {
		if year != nil && !equalIntPtr(album.Year, year) {
			album.Year = year
			album.UpdatedAt = time.Now()
			_, err := tx.NewUpdate().Model(album).Column("year", "updated_at").WherePK().Exec(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			imp.stats.UpdatedAlbums++
		}
		return album, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	album = &models.Album{Name: name, SortName: sortname.ForName(name), ArtistID: artistID, Year: year, CreatedAt: now, UpdatedAt: now}
	if _, err := tx.NewInsert().Model(album).Returning("*").Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	imp.stats.CreatedAlbums++
	return album, nil
}

func (imp *Importer) findOrCreateGenre(ctx context.Context, tx bun.Tx, name string) (*models.Genre, error) {
	genre := &models.Genre{}
	err := tx.NewSelect().Model(genre).Where("g.name = ?", name).Scan(ctx)
	if err == nil {
		return genre, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	genre = &models.Genre{Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := tx.NewInsert().Model(genre).Returning("*").Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	imp.stats.CreatedGenres++
	return genre, nil
}

// backfillArtwork gives the song's parents artwork if they have none yet. The
// first artwork seen for a group sticks until the group is rebuilt.
func (imp *Importer) backfillArtwork(ctx context.Context, tx bun.Tx, artist *models.Artist, album *models.Album, genre *models.Genre, artworkID int) error {
	now := time.Now()

	if album.ArtworkID == nil {
		album.ArtworkID = &artworkID
		album.UpdatedAt = now
		_, err := tx.NewUpdate().Model(album).Column("artwork_id", "updated_at").WherePK().Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		imp.stats.UpdatedAlbums++
	}
	if artist.ArtworkID == nil {
		artist.ArtworkID = &artworkID
		artist.UpdatedAt = now
		_, err := tx.NewUpdate().Model(artist).Column("artwork_id", "updated_at").WherePK().Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		imp.stats.UpdatedArtists++
	}
	if genre.ArtworkID == nil {
		genre.ArtworkID = &artworkID
		genre.UpdatedAt = now
		_, err := tx.NewUpdate().Model(genre).Column("artwork_id", "updated_at").WherePK().Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		imp.stats.UpdatedGenres++
	}

	return nil
}

// songMatches reports whether the stored song already reflects the desired
// state, making the import a no-op.
func songMatches(existing, desired *models.Song) bool {
	return existing.Path == desired.Path &&
		existing.MimeType == desired.MimeType &&
		existing.FileType == desired.FileType &&
		existing.SizeBytes == desired.SizeBytes &&
		existing.DurationSeconds == desired.DurationSeconds &&
		existing.BitRate == desired.BitRate &&
		existing.BitRateVariable == desired.BitRateVariable &&
		equalIntPtr(existing.DiscNumber, desired.DiscNumber) &&
		equalIntPtr(existing.DiscCount, desired.DiscCount) &&
		equalIntPtr(existing.TrackNumber, desired.TrackNumber) &&
		equalIntPtr(existing.TrackCount, desired.TrackCount) &&
		equalStringPtr(existing.Name, desired.Name) &&
		equalStringPtr(existing.ArtistName, desired.ArtistName) &&
		equalStringPtr(existing.AlbumArtistName, desired.AlbumArtistName) &&
		equalStringPtr(existing.GenreName, desired.GenreName) &&
		existing.AlbumID == desired.AlbumID &&
		existing.GenreID == desired.GenreID &&
		equalIntPtr(existing.ArtworkID, desired.ArtworkID)
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
