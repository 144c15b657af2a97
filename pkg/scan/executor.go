package scan

import (
	"context"
	"database/sql"
	"time"

	"github.com/cadenzafm/cadenza/pkg/artworks"
	"github.com/cadenzafm/cadenza/pkg/config"
	"github.com/cadenzafm/cadenza/pkg/filetree"
	"github.com/cadenzafm/cadenza/pkg/mediafile"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/cadenzafm/cadenza/pkg/scanjobs"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Executor runs one scan job end to end: walk the target folders, clean out
// songs and artworks whose files are gone, import every audio file found, and
// fill in artwork for songs still missing it. The job row tracks the
// lifecycle; a job that reaches neither complete nor failed was interrupted.
type Executor struct {
	db             *bun.DB
	config         *config.Config
	scanJobService *scanjobs.Service
	artworkStorage *artworks.Storage
	observer       Observer
}

func NewExecutor(cfg *config.Config, db *bun.DB, observer Observer) *Executor {
	return &Executor{
		db:             db,
		config:         cfg,
		scanJobService: scanjobs.NewService(db),
		artworkStorage: artworks.NewStorage(cfg.ArtworkDir),
		observer:       observer,
	}
}

// Run executes the job. The returned error is also recorded on the job row as
// a failure, so callers only need it for logging.
func (e *Executor) Run(ctx context.Context, job *models.ScanJob) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	job.Status = models.ScanJobStatusStarted
	err := e.scanJobService.UpdateScanJob(ctx, job, scanjobs.UpdateScanJobOptions{
		Columns: []string{"status"},
	})
	if err != nil {
		return err
	}

	result, failedPaths, err := e.run(ctx, job)
	if err != nil {
		log.Err(err).Error("scan failed")

		message := err.Error()
		job.Status = models.ScanJobStatusFailed
		job.LogMessage = &message
		job.FailedPathsParsed = failedPaths
		updateErr := e.scanJobService.UpdateScanJob(ctx, job, scanjobs.UpdateScanJobOptions{
			Columns: []string{"status", "log_message", "failed_paths"},
		})
		if updateErr != nil {
			log.Err(updateErr).Error("update scan job error")
		}
		return err
	}

	result.DurationMillis = time.Since(start).Milliseconds()
	job.Status = models.ScanJobStatusComplete
	job.FailedPathsParsed = failedPaths
	job.ResultParsed = result
	err = e.scanJobService.UpdateScanJob(ctx, job, scanjobs.UpdateScanJobOptions{
		Columns: []string{"status", "failed_paths", "result"},
	})
	if err != nil {
		return err
	}

	log.Info("scan complete", logger.Data{
		"duration_millis": result.DurationMillis,
		"processed":       result.ProcessedAudioFiles,
		"created_songs":   result.CreatedSongs,
		"updated_songs":   result.UpdatedSongs,
		"deleted_songs":   result.DeletedSongs,
		"failed_paths":    len(failedPaths),
	})
	return nil
}

func (e *Executor) run(ctx context.Context, job *models.ScanJob) (*models.ScanResult, []string, error) {
	log := logger.FromContext(ctx)

	stats := &models.ScanResult{}
	cleaner := NewCleaner(e.artworkStorage, stats)
	batchCleaner := NewBatchCleaner(e.db, cleaner, stats, e.config.ScanCleaningBatchSize)
	artworkService := artworks.NewService(e.db)
	finder := artworks.NewFinder(artworkService, e.artworkStorage)
	importer := NewImporter(e.db, finder, cleaner, stats)

	notifyObserver(ctx, e.observer, Progress{Step: StepPreparing})

	targetPaths := job.TargetPathsParsed
	if len(targetPaths) == 0 {
		targetPaths = e.config.LibraryFolders
	}
	if len(targetPaths) == 0 {
		return nil, nil, errors.New("no library folders to scan")
	}

	// Walk every target folder up front. A missing target folder fails the
	// whole scan rather than silently deleting its library contents.
	notifyObserver(ctx, e.observer, Progress{Step: StepSearchingMedia})

	var failedPaths []string
	var audioNodes []*filetree.AudioNode
	existingAudioPaths := map[string]struct{}{}
	existingImagePaths := map[string]struct{}{}

	for _, targetPath := range targetPaths {
		tree, err := filetree.Walk(targetPath)
		if err != nil {
			return nil, failedPaths, errors.Wrapf(err, "failed to walk %s", targetPath)
		}
		failedPaths = append(failedPaths, tree.FailedPaths...)
		for _, audioNode := range tree.AllAudios() {
			audioNodes = append(audioNodes, audioNode)
			existingAudioPaths[audioNode.Path()] = struct{}{}
		}
		for _, imageNode := range tree.AllImages() {
			existingImagePaths[imageNode.Path()] = struct{}{}
		}
	}

	if err := batchCleaner.CleanSongs(ctx, existingAudioPaths, e.observer); err != nil {
		return nil, failedPaths, err
	}
	if err := batchCleaner.CleanArtworks(ctx, existingImagePaths, e.observer); err != nil {
		return nil, failedPaths, err
	}

	// Failed files still count as processed items, so the observer always
	// sees every position up to the total.
	for i, audioNode := range audioNodes {
		if meta, err := mediafile.Read(audioNode.Path()); err != nil {
			log.Warn("failed to read audio file", logger.Data{"path": audioNode.Path(), "error": err.Error()})
			failedPaths = append(failedPaths, audioNode.Path())
		} else if _, err := importer.ImportAudioData(ctx, audioNode, meta); err != nil {
			log.Warn("failed to import audio file", logger.Data{"path": audioNode.Path(), "error": err.Error()})
			failedPaths = append(failedPaths, audioNode.Path())
		}

		notifyObserver(ctx, e.observer, Progress{
			Step:          StepImporting,
			ItemsComplete: i + 1,
			ItemsTotal:    len(audioNodes),
		})
	}

	if err := e.searchArtworks(ctx, importer, finder, audioNodes); err != nil {
		return nil, failedPaths, err
	}

	return stats, failedPaths, nil
}

// searchArtworks revisits songs that still have no artwork. Artwork can turn
// up after a song's own import, for example when a cover image sits in a
// sibling file imported later or the image file appeared mid-scan.
func (e *Executor) searchArtworks(ctx context.Context, importer *Importer, finder *artworks.Finder, audioNodes []*filetree.AudioNode) error {
	nodesByPath := make(map[string]*filetree.AudioNode, len(audioNodes))
	for _, audioNode := range audioNodes {
		nodesByPath[audioNode.Path()] = audioNode
	}

	var songList []*models.Song
	err := e.db.NewSelect().
		Model(&songList).
		Where("s.artwork_id IS NULL").
		Order("s.id ASC").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	// Songs whose file was not part of this walk are skipped but still
	// reported, so progress runs through every position.
	for i, song := range songList {
		if audioNode, ok := nodesByPath[song.Path]; ok {
			err := e.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
				return e.attachArtwork(ctx, tx, importer, finder, song, audioNode)
			})
			if err != nil {
				return err
			}
		}

		notifyObserver(ctx, e.observer, Progress{
			Step:          StepSearchingArtworks,
			ItemsComplete: i + 1,
			ItemsTotal:    len(songList),
		})
	}

	return nil
}

func (e *Executor) attachArtwork(ctx context.Context, tx bun.Tx, importer *Importer, finder *artworks.Finder, song *models.Song, audioNode *filetree.AudioNode) error {
	artwork, created, err := finder.Find(ctx, audioNode)
	if err != nil || artwork == nil {
		return err
	}
	if created {
		importer.stats.CreatedArtworks++
		importer.stats.ArtworkSizeBytes += artwork.SizeBytes
	}

	song.ArtworkID = &artwork.ID
	song.UpdatedAt = time.Now()
	_, err = tx.NewUpdate().Model(song).Column("artwork_id", "updated_at").WherePK().Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	importer.stats.UpdatedSongs++

	album := &models.Album{}
	if err := tx.NewSelect().Model(album).Where("al.id = ?", song.AlbumID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return errors.WithStack(err)
	}
	artist := &models.Artist{}
	if err := tx.NewSelect().Model(artist).Where("ar.id = ?", album.ArtistID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return errors.WithStack(err)
	}
	genre := &models.Genre{}
	if err := tx.NewSelect().Model(genre).Where("g.id = ?", song.GenreID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return errors.WithStack(err)
	}

	return importer.backfillArtwork(ctx, tx, artist, album, genre, artwork.ID)
}
