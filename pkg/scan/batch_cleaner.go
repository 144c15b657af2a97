package scan

import (
	"context"
	"database/sql"
	"os"

	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// BatchCleaner removes songs whose files disappeared and artworks whose
// source files disappeared or changed. It works in two phases: a read-only
// scan that collects candidate IDs a page at a time, then deletion in chunks,
// each chunk in its own transaction. A crash mid-delete loses at most one
// chunk of progress and the next scan picks up the rest.
type BatchCleaner struct {
	db        *bun.DB
	cleaner   *Cleaner
	stats     *models.ScanResult
	batchSize int
}

func NewBatchCleaner(db *bun.DB, cleaner *Cleaner, stats *models.ScanResult, batchSize int) *BatchCleaner {
	return &BatchCleaner{db: db, cleaner: cleaner, stats: stats, batchSize: batchSize}
}

// CleanSongs deletes every song whose path is absent from the set of audio
// files found by the current walk, cascading to albums, artists, genres, and
// artworks left without references.
func (bc *BatchCleaner) CleanSongs(ctx context.Context, existingAudioPaths map[string]struct{}, observer Observer) error {
	candidateIDs, err := bc.collectSongCandidates(ctx, existingAudioPaths)
	if err != nil {
		return err
	}

	total := len(candidateIDs)
	complete := 0

	for _, chunk := range chunkIDs(candidateIDs, bc.batchSize) {
		err := bc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, id := range chunk {
				if err := bc.deleteSong(ctx, tx, id); err != nil {
					return err
				}
				complete++
				notifyObserver(ctx, observer, Progress{
					Step:          StepCleaningSongs,
					ItemsComplete: complete,
					ItemsTotal:    total,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (bc *BatchCleaner) collectSongCandidates(ctx context.Context, existingAudioPaths map[string]struct{}) ([]int, error) {
	var candidateIDs []int
	afterID := 0

	for {
		var page []*models.Song
		err := bc.db.NewSelect().
			Model(&page).
			Column("s.id", "s.path").
			Where("s.id > ?", afterID).
			Order("s.id ASC").
			Limit(bc.batchSize).
			Scan(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if len(page) == 0 {
			return candidateIDs, nil
		}

		for _, song := range page {
			if _, ok := existingAudioPaths[song.Path]; !ok {
				candidateIDs = append(candidateIDs, song.ID)
			}
			afterID = song.ID
		}
	}
}

func (bc *BatchCleaner) deleteSong(ctx context.Context, tx bun.Tx, id int) error {
	// Re-fetch inside the chunk's transaction. The row may have been removed
	// since the scan phase.
	song := &models.Song{}
	err := tx.NewSelect().Model(song).Where("s.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return errors.WithStack(err)
	}

	if _, err := tx.NewDelete().Model(song).WherePK().Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	bc.stats.DeletedSongs++

	if _, err := bc.cleaner.DeleteAlbumIfUnused(ctx, tx, song.AlbumID); err != nil {
		return err
	}
	if _, err := bc.cleaner.DeleteGenreIfUnused(ctx, tx, song.GenreID); err != nil {
		return err
	}
	if song.ArtworkID != nil {
		if _, err := bc.cleaner.DeleteArtworkIfUnused(ctx, tx, *song.ArtworkID); err != nil {
			return err
		}
	}

	return nil
}

// CleanArtworks deletes artworks whose source is gone or has changed since
// the artwork was stored. File-sourced artworks are checked against the
// current walk's image set; every artwork is checked against its source
// file's modification time. References from songs and groups are cleared
// before the row goes away so the importer can re-resolve artwork on its next
// pass.
func (bc *BatchCleaner) CleanArtworks(ctx context.Context, existingImagePaths map[string]struct{}, observer Observer) error {
	candidateIDs, err := bc.collectArtworkCandidates(ctx, existingImagePaths)
	if err != nil {
		return err
	}

	total := len(candidateIDs)
	complete := 0

	for _, chunk := range chunkIDs(candidateIDs, bc.batchSize) {
		err := bc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, id := range chunk {
				if err := bc.deleteArtwork(ctx, tx, id); err != nil {
					return err
				}
				complete++
				notifyObserver(ctx, observer, Progress{
					Step:          StepCleaningArtworks,
					ItemsComplete: complete,
					ItemsTotal:    total,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (bc *BatchCleaner) collectArtworkCandidates(ctx context.Context, existingImagePaths map[string]struct{}) ([]int, error) {
	var candidateIDs []int
	afterID := 0

	for {
		var page []*models.Artwork
		err := bc.db.NewSelect().
			Model(&page).
			Where("aw.id > ?", afterID).
			Order("aw.id ASC").
			Limit(bc.batchSize).
			Scan(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if len(page) == 0 {
			return candidateIDs, nil
		}

		for _, artwork := range page {
			if artworkIsStale(artwork, existingImagePaths) {
				candidateIDs = append(candidateIDs, artwork.ID)
			}
			afterID = artwork.ID
		}
	}
}

// artworkIsStale reports whether an artwork's source no longer backs it. A
// file-sourced artwork must still be in the walked image set; any artwork is
// stale once its source file is missing or modified after the artwork was
// stored.
func artworkIsStale(artwork *models.Artwork, existingImagePaths map[string]struct{}) bool {
	if artwork.SourceScheme == models.ArtworkSourceFile {
		if _, ok := existingImagePaths[artwork.SourcePath]; !ok {
			return true
		}
	}

	info, err := os.Stat(artwork.SourcePath)
	if err != nil {
		return true
	}
	return info.ModTime().After(artwork.SourceDate)
}

func (bc *BatchCleaner) deleteArtwork(ctx context.Context, tx bun.Tx, id int) error {
	artwork := &models.Artwork{}
	err := tx.NewSelect().Model(artwork).Where("aw.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return errors.WithStack(err)
	}

	if err := bc.clearArtworkReferences(ctx, tx, id); err != nil {
		return err
	}

	if _, err := tx.NewDelete().Model(artwork).WherePK().Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	bc.stats.DeletedArtworks++

	return bc.cleaner.storage.Delete(artwork.Checksum)
}

func (bc *BatchCleaner) clearArtworkReferences(ctx context.Context, tx bun.Tx, artworkID int) error {
	for _, model := range []interface{}{
		(*models.Song)(nil),
		(*models.Album)(nil),
		(*models.Artist)(nil),
		(*models.Genre)(nil),
	} {
		_, err := tx.NewUpdate().
			Model(model).
			Set("artwork_id = NULL").
			Where("artwork_id = ?", artworkID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func chunkIDs(ids []int, size int) [][]int {
	if size <= 0 {
		size = 1
	}
	var chunks [][]int
	for len(ids) > 0 {
		n := size
		if n > len(ids) {
			n = len(ids)
		}
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}
