package scan

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/cadenzafm/cadenza/pkg/artworks"
	"github.com/cadenzafm/cadenza/pkg/filetree"
	"github.com/cadenzafm/cadenza/pkg/mediafile"
	"github.com/cadenzafm/cadenza/pkg/migrations"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTestStorage(t *testing.T) *artworks.Storage {
	t.Helper()
	return artworks.NewStorage(t.TempDir())
}

// stubFinder satisfies ArtworkFinder without touching real files.
type stubFinder struct {
	artwork *models.Artwork
}

func (f *stubFinder) Find(_ context.Context, _ *filetree.AudioNode) (*models.Artwork, bool, error) {
	return f.artwork, false, nil
}

func testAudioNode(path string) *filetree.AudioNode {
	root := filetree.NewFolder("/music", nil)
	return filetree.NewAudio(path, root)
}

func testMetadata(path string) *mediafile.Metadata {
	return &mediafile.Metadata{
		Path:            path,
		MimeType:        "audio/mpeg",
		FileType:        "mp3",
		SizeBytes:       4096,
		DurationSeconds: 180,
		BitRate:         320,
		Title:           pointerutil.String("Test Song"),
		Artist:          pointerutil.String("Test Artist"),
		Album:           pointerutil.String("Test Album"),
		Genre:           pointerutil.String("Rock"),
		Year:            pointerutil.Int(2001),
		TrackNumber:     pointerutil.Int(1),
	}
}

func seedArtist(t *testing.T, db *bun.DB, name string, artworkID *int) *models.Artist {
	t.Helper()
	now := time.Now()
	artist := &models.Artist{Name: name, ArtworkID: artworkID, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(artist).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return artist
}

func seedAlbum(t *testing.T, db *bun.DB, name string, artistID int, artworkID *int) *models.Album {
	t.Helper()
	now := time.Now()
	album := &models.Album{Name: name, ArtistID: artistID, ArtworkID: artworkID, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(album).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return album
}

func seedGenre(t *testing.T, db *bun.DB, name string, artworkID *int) *models.Genre {
	t.Helper()
	now := time.Now()
	genre := &models.Genre{Name: name, ArtworkID: artworkID, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(genre).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return genre
}

func seedSong(t *testing.T, db *bun.DB, path string, albumID, genreID int, artworkID *int) *models.Song {
	t.Helper()
	now := time.Now()
	song := &models.Song{
		Path:      path,
		MimeType:  "audio/mpeg",
		FileType:  "mp3",
		SizeBytes: 4096,
		AlbumID:   albumID,
		GenreID:   genreID,
		ArtworkID: artworkID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(song).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return song
}

func seedArtwork(t *testing.T, db *bun.DB, checksum, sourceScheme, sourcePath string, sourceDate time.Time) *models.Artwork {
	t.Helper()
	now := time.Now()
	artwork := &models.Artwork{
		Checksum:     checksum,
		MimeType:     "image/jpeg",
		SizeBytes:    128,
		SourceScheme: sourceScheme,
		SourcePath:   sourcePath,
		SourceDate:   sourceDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := db.NewInsert().Model(artwork).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return artwork
}

func countRows(t *testing.T, db *bun.DB, model interface{}) int {
	t.Helper()
	count, err := db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return count
}
