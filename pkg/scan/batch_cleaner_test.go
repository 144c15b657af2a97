package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestBatchCleaner(t *testing.T, batchSize int) (*BatchCleaner, *bun.DB, *models.ScanResult) {
	t.Helper()
	db := newTestDB(t)
	stats := &models.ScanResult{}
	cleaner := NewCleaner(newTestStorage(t), stats)
	return NewBatchCleaner(db, cleaner, stats, batchSize), db, stats
}

func TestCleanSongs_DeletesMissing(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	seedSong(t, db, "/music/keep.mp3", album.ID, genre.ID, nil)
	seedSong(t, db, "/music/gone.mp3", album.ID, genre.ID, nil)

	existing := map[string]struct{}{"/music/keep.mp3": {}}
	err := bc.CleanSongs(ctx, existing, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, (*models.Song)(nil)))
	assert.Equal(t, 1, stats.DeletedSongs)

	// The album still has the kept song, so nothing cascades.
	assert.Equal(t, 1, countRows(t, db, (*models.Album)(nil)))
	assert.Equal(t, 1, countRows(t, db, (*models.Genre)(nil)))
}

func TestCleanSongs_CascadesWhenLastSongGoes(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	seedSong(t, db, "/music/gone.mp3", album.ID, genre.ID, nil)

	err := bc.CleanSongs(ctx, map[string]struct{}{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, (*models.Song)(nil)))
	assert.Equal(t, 0, countRows(t, db, (*models.Album)(nil)))
	assert.Equal(t, 0, countRows(t, db, (*models.Artist)(nil)))
	assert.Equal(t, 0, countRows(t, db, (*models.Genre)(nil)))
	assert.Equal(t, 1, stats.DeletedSongs)
	assert.Equal(t, 1, stats.DeletedAlbums)
	assert.Equal(t, 1, stats.DeletedArtists)
	assert.Equal(t, 1, stats.DeletedGenres)
}

func TestCleanSongs_SmallChunks(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 2)
	ctx := context.Background()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	for i := 0; i < 5; i++ {
		seedSong(t, db, fmt.Sprintf("/music/%02d.mp3", i), album.ID, genre.ID, nil)
	}

	err := bc.CleanSongs(ctx, map[string]struct{}{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, (*models.Song)(nil)))
	assert.Equal(t, 5, stats.DeletedSongs)
}

func TestCleanSongs_ObserverProgress(t *testing.T) {
	bc, db, _ := newTestBatchCleaner(t, 2)
	ctx := context.Background()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	for i := 0; i < 3; i++ {
		seedSong(t, db, fmt.Sprintf("/music/%02d.mp3", i), album.ID, genre.ID, nil)
	}

	var snapshots []Progress
	observer := func(p Progress) {
		snapshots = append(snapshots, p)
	}

	err := bc.CleanSongs(ctx, map[string]struct{}{}, observer)
	require.NoError(t, err)

	require.Len(t, snapshots, 3)
	for i, p := range snapshots {
		assert.Equal(t, StepCleaningSongs, p.Step)
		assert.Equal(t, i+1, p.ItemsComplete)
		assert.Equal(t, 3, p.ItemsTotal)
	}
}

func TestCleanSongs_ObserverPanicSwallowed(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	seedSong(t, db, "/music/gone.mp3", album.ID, genre.ID, nil)

	observer := func(_ Progress) {
		panic("broken observer")
	}

	err := bc.CleanSongs(ctx, map[string]struct{}{}, observer)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.DeletedSongs)
}

func TestCleanArtworks_MissingSource(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	artwork := seedArtwork(t, db, "abc123", models.ArtworkSourceFile, "/nonexistent/cover.jpg", time.Now())
	artist := seedArtist(t, db, "Test Artist", &artwork.ID)
	album := seedAlbum(t, db, "Test Album", artist.ID, &artwork.ID)
	genre := seedGenre(t, db, "Rock", &artwork.ID)
	song := seedSong(t, db, "/music/01.mp3", album.ID, genre.ID, &artwork.ID)

	err := bc.CleanArtworks(ctx, map[string]struct{}{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, (*models.Artwork)(nil)))
	assert.Equal(t, 1, stats.DeletedArtworks)

	// References were cleared, not cascaded.
	fetched := &models.Song{}
	require.NoError(t, db.NewSelect().Model(fetched).Where("s.id = ?", song.ID).Scan(ctx))
	assert.Nil(t, fetched.ArtworkID)

	fetchedAlbum := &models.Album{}
	require.NoError(t, db.NewSelect().Model(fetchedAlbum).Where("al.id = ?", album.ID).Scan(ctx))
	assert.Nil(t, fetchedAlbum.ArtworkID)
}

func TestCleanArtworks_StaleMtime(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(coverPath, []byte("image"), 0644))

	// Stored before the file's current mtime, so the source has changed.
	seedArtwork(t, db, "stale", models.ArtworkSourceFile, coverPath, time.Now().Add(-time.Hour))

	existing := map[string]struct{}{coverPath: {}}
	err := bc.CleanArtworks(ctx, existing, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, (*models.Artwork)(nil)))
	assert.Equal(t, 1, stats.DeletedArtworks)
}

func TestCleanArtworks_FreshKept(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(coverPath, []byte("image"), 0644))

	seedArtwork(t, db, "fresh", models.ArtworkSourceFile, coverPath, time.Now().Add(time.Hour))

	existing := map[string]struct{}{coverPath: {}}
	err := bc.CleanArtworks(ctx, existing, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, (*models.Artwork)(nil)))
	assert.Equal(t, 0, stats.DeletedArtworks)
}

func TestCleanArtworks_EmbeddedCheckedByMtimeOnly(t *testing.T) {
	bc, db, stats := newTestBatchCleaner(t, 100)
	ctx := context.Background()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(audioPath, []byte("audio"), 0644))

	// Embedded artwork is not expected in the image set. It survives as long
	// as its source audio file is unchanged.
	seedArtwork(t, db, "embedded", models.ArtworkSourceEmbedded, audioPath, time.Now().Add(time.Hour))

	err := bc.CleanArtworks(ctx, map[string]struct{}{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, db, (*models.Artwork)(nil)))
	assert.Equal(t, 0, stats.DeletedArtworks)
}

func TestChunkIDs(t *testing.T) {
	chunks := chunkIDs([]int{1, 2, 3, 4, 5}, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2}, chunks[0])
	assert.Equal(t, []int{3, 4}, chunks[1])
	assert.Equal(t, []int{5}, chunks[2])

	assert.Nil(t, chunkIDs(nil, 2))
}
