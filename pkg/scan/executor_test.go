package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cadenzafm/cadenza/pkg/config"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/cadenzafm/cadenza/pkg/scanjobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestExecutor(t *testing.T, db *bun.DB, observer Observer) *Executor {
	t.Helper()
	cfg := &config.Config{
		ArtworkDir:            t.TempDir(),
		ScanCleaningBatchSize: 10,
	}
	return NewExecutor(cfg, db, observer)
}

func createTestJob(t *testing.T, db *bun.DB, targetPaths []string) *models.ScanJob {
	t.Helper()
	svc := scanjobs.NewService(db)
	job := &models.ScanJob{
		Type:              models.ScanTypeFull,
		Status:            models.ScanJobStatusStarting,
		TargetPathsParsed: targetPaths,
	}
	require.NoError(t, svc.CreateScanJob(context.Background(), job))
	return job
}

func retrieveTestJob(t *testing.T, db *bun.DB, id int) *models.ScanJob {
	t.Helper()
	svc := scanjobs.NewService(db)
	job, err := svc.RetrieveScanJob(context.Background(), scanjobs.RetrieveScanJobOptions{ID: &id})
	require.NoError(t, err)
	return job
}

func TestExecutorRun_EmptyLibrary(t *testing.T) {
	db := newTestDB(t)
	executor := newTestExecutor(t, db, nil)
	ctx := context.Background()

	libraryDir := t.TempDir()
	job := createTestJob(t, db, []string{libraryDir})

	err := executor.Run(ctx, job)
	require.NoError(t, err)

	fetched := retrieveTestJob(t, db, job.ID)
	assert.Equal(t, models.ScanJobStatusComplete, fetched.Status)
	require.NotNil(t, fetched.ResultParsed)
	assert.Equal(t, 0, fetched.ResultParsed.ProcessedAudioFiles)
	assert.Empty(t, fetched.FailedPathsParsed)
}

func TestExecutorRun_MissingFolderFails(t *testing.T) {
	db := newTestDB(t)
	executor := newTestExecutor(t, db, nil)
	ctx := context.Background()

	job := createTestJob(t, db, []string{"/nonexistent/library"})

	err := executor.Run(ctx, job)
	require.Error(t, err)

	fetched := retrieveTestJob(t, db, job.ID)
	assert.Equal(t, models.ScanJobStatusFailed, fetched.Status)
	require.NotNil(t, fetched.LogMessage)
	assert.Contains(t, *fetched.LogMessage, "/nonexistent/library")
}

func TestExecutorRun_NoTargetPaths(t *testing.T) {
	db := newTestDB(t)
	executor := newTestExecutor(t, db, nil)
	ctx := context.Background()

	job := createTestJob(t, db, nil)

	err := executor.Run(ctx, job)
	require.Error(t, err)

	fetched := retrieveTestJob(t, db, job.ID)
	assert.Equal(t, models.ScanJobStatusFailed, fetched.Status)
}

func TestExecutorRun_RemovesDeletedSongs(t *testing.T) {
	db := newTestDB(t)
	executor := newTestExecutor(t, db, nil)
	ctx := context.Background()

	libraryDir := t.TempDir()

	artist := seedArtist(t, db, "Test Artist", nil)
	album := seedAlbum(t, db, "Test Album", artist.ID, nil)
	genre := seedGenre(t, db, "Rock", nil)
	seedSong(t, db, filepath.Join(libraryDir, "deleted.mp3"), album.ID, genre.ID, nil)

	job := createTestJob(t, db, []string{libraryDir})
	err := executor.Run(ctx, job)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, db, (*models.Song)(nil)))
	assert.Equal(t, 0, countRows(t, db, (*models.Album)(nil)))

	fetched := retrieveTestJob(t, db, job.ID)
	require.NotNil(t, fetched.ResultParsed)
	assert.Equal(t, 1, fetched.ResultParsed.DeletedSongs)
	assert.Equal(t, 1, fetched.ResultParsed.DeletedAlbums)
}

func TestExecutorRun_UnreadableAudioIsFailedPath(t *testing.T) {
	db := newTestDB(t)
	executor := newTestExecutor(t, db, nil)
	ctx := context.Background()

	libraryDir := t.TempDir()
	brokenPath := filepath.Join(libraryDir, "broken.mp3")
	require.NoError(t, os.WriteFile(brokenPath, []byte("not really audio"), 0644))

	job := createTestJob(t, db, []string{libraryDir})
	err := executor.Run(ctx, job)
	require.NoError(t, err)

	fetched := retrieveTestJob(t, db, job.ID)
	assert.Equal(t, models.ScanJobStatusComplete, fetched.Status)
	assert.Contains(t, fetched.FailedPathsParsed, brokenPath)
	assert.Equal(t, 0, countRows(t, db, (*models.Song)(nil)))
}

func TestExecutorRun_ObserverCountsFailedFiles(t *testing.T) {
	db := newTestDB(t)

	var importing []Progress
	observer := func(p Progress) {
		if p.Step == StepImporting {
			importing = append(importing, p)
		}
	}
	executor := newTestExecutor(t, db, observer)
	ctx := context.Background()

	libraryDir := t.TempDir()
	for _, name := range []string{"one.mp3", "two.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(libraryDir, name), []byte("not really audio"), 0644))
	}

	job := createTestJob(t, db, []string{libraryDir})
	err := executor.Run(ctx, job)
	require.NoError(t, err)

	// Every file produces a progress update, failed or not, with strictly
	// increasing completion against a fixed total.
	require.Len(t, importing, 2)
	for i, p := range importing {
		assert.Equal(t, i+1, p.ItemsComplete)
		assert.Equal(t, 2, p.ItemsTotal)
	}

	fetched := retrieveTestJob(t, db, job.ID)
	assert.Len(t, fetched.FailedPathsParsed, 2)
}

func TestExecutorRun_ObserverSeesSteps(t *testing.T) {
	db := newTestDB(t)

	var steps []string
	observer := func(p Progress) {
		steps = append(steps, p.Step)
	}
	executor := newTestExecutor(t, db, observer)
	ctx := context.Background()

	libraryDir := t.TempDir()
	job := createTestJob(t, db, []string{libraryDir})

	err := executor.Run(ctx, job)
	require.NoError(t, err)

	assert.Contains(t, steps, StepPreparing)
	assert.Contains(t, steps, StepSearchingMedia)
}
