package songs

import (
	"context"
	"database/sql"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveSongOptions struct {
	ID   *int
	Path *string
}

type ListSongsOptions struct {
	Limit   *int
	Offset  *int
	AlbumID *int
	GenreID *int
	Search  *string

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveSong(ctx context.Context, opts RetrieveSongOptions) (*models.Song, error) {
	song := &models.Song{}

	q := svc.db.
		NewSelect().
		Model(song).
		Relation("Album").
		Relation("Album.Artist").
		Relation("Genre").
		Relation("Artwork")

	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.Path != nil {
		q = q.Where("s.path = ?", *opts.Path)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Song")
		}
		return nil, errors.WithStack(err)
	}

	return song, nil
}

func (svc *Service) ListSongs(ctx context.Context, opts ListSongsOptions) ([]*models.Song, error) {
	s, _, err := svc.listSongsWithTotal(ctx, opts)
	return s, errors.WithStack(err)
}

func (svc *Service) ListSongsWithTotal(ctx context.Context, opts ListSongsOptions) ([]*models.Song, int, error) {
	opts.includeTotal = true
	return svc.listSongsWithTotal(ctx, opts)
}

func (svc *Service) listSongsWithTotal(ctx context.Context, opts ListSongsOptions) ([]*models.Song, int, error) {
	var songList []*models.Song
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&songList).
		Order("s.disc_number ASC", "s.track_number ASC", "s.name ASC")

	if opts.AlbumID != nil {
		q = q.Where("s.album_id = ?", *opts.AlbumID)
	}
	if opts.GenreID != nil {
		q = q.Where("s.genre_id = ?", *opts.GenreID)
	}
	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("s.name LIKE ?", "%"+*opts.Search+"%")
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return songList, total, nil
}
