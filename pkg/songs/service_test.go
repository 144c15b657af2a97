package songs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/cadenzafm/cadenza/pkg/migrations"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
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

type seededLibrary struct {
	artist *models.Artist
	album  *models.Album
	genre  *models.Genre
}

func seedLibrary(t *testing.T, db *bun.DB) seededLibrary {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	artist := &models.Artist{Name: "The Beatles", CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(artist).Returning("*").Exec(ctx)
	require.NoError(t, err)

	album := &models.Album{Name: "Abbey Road", ArtistID: artist.ID, CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(album).Returning("*").Exec(ctx)
	require.NoError(t, err)

	genre := &models.Genre{Name: "Rock", CreatedAt: now, UpdatedAt: now}
	_, err = db.NewInsert().Model(genre).Returning("*").Exec(ctx)
	require.NoError(t, err)

	return seededLibrary{artist: artist, album: album, genre: genre}
}

func seedSong(t *testing.T, db *bun.DB, lib seededLibrary, path, name string, track int) *models.Song {
	t.Helper()
	now := time.Now()
	song := &models.Song{
		Path:        path,
		MimeType:    "audio/mpeg",
		FileType:    "mp3",
		SizeBytes:   4096,
		Name:        &name,
		TrackNumber: &track,
		AlbumID:     lib.album.ID,
		GenreID:     lib.genre.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := db.NewInsert().Model(song).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return song
}

func TestRetrieveSong(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	lib := seedLibrary(t, db)

	seeded := seedSong(t, db, lib, "/music/beatles/abbey-road/01.mp3", "Come Together", 1)

	song, err := svc.RetrieveSong(ctx, RetrieveSongOptions{ID: &seeded.ID})
	require.NoError(t, err)
	require.NotNil(t, song.Name)
	assert.Equal(t, "Come Together", *song.Name)
	require.NotNil(t, song.Album)
	assert.Equal(t, "Abbey Road", song.Album.Name)
	require.NotNil(t, song.Album.Artist)
	assert.Equal(t, "The Beatles", song.Album.Artist.Name)

	song, err = svc.RetrieveSong(ctx, RetrieveSongOptions{
		Path: pointerutil.String("/music/beatles/abbey-road/01.mp3"),
	})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, song.ID)

	_, err = svc.RetrieveSong(ctx, RetrieveSongOptions{Path: pointerutil.String("/missing.mp3")})
	require.Error(t, err)
}

func TestListSongs_TrackOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	lib := seedLibrary(t, db)

	seedSong(t, db, lib, "/music/beatles/abbey-road/03.mp3", "Maxwell's Silver Hammer", 3)
	seedSong(t, db, lib, "/music/beatles/abbey-road/01.mp3", "Come Together", 1)
	seedSong(t, db, lib, "/music/beatles/abbey-road/02.mp3", "Something", 2)

	songList, err := svc.ListSongs(ctx, ListSongsOptions{AlbumID: &lib.album.ID})
	require.NoError(t, err)
	require.Len(t, songList, 3)
	assert.Equal(t, "Come Together", *songList[0].Name)
	assert.Equal(t, "Something", *songList[1].Name)
	assert.Equal(t, "Maxwell's Silver Hammer", *songList[2].Name)
}

func TestListSongs_SearchAndTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	lib := seedLibrary(t, db)

	seedSong(t, db, lib, "/music/beatles/abbey-road/01.mp3", "Come Together", 1)
	seedSong(t, db, lib, "/music/beatles/abbey-road/02.mp3", "Something", 2)

	songList, total, err := svc.ListSongsWithTotal(ctx, ListSongsOptions{
		Search: pointerutil.String("Together"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, songList, 1)
	assert.Equal(t, "Come Together", *songList[0].Name)
}
