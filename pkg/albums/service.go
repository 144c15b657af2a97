package albums

import (
	"context"
	"database/sql"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveAlbumOptions struct {
	ID *int
	// Name and ArtistID together form the album's unique key.
	Name     *string
	ArtistID *int
}

type ListAlbumsOptions struct {
	Limit    *int
	Offset   *int
	ArtistID *int
	Search   *string

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveAlbum(ctx context.Context, opts RetrieveAlbumOptions) (*models.Album, error) {
	album := &models.Album{}

	q := svc.db.
		NewSelect().
		Model(album).
		Relation("Artist").
		Relation("Artwork")

	if opts.ID != nil {
		q = q.Where("al.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("al.name = ?", *opts.Name)
	}
	if opts.ArtistID != nil {
		q = q.Where("al.artist_id = ?", *opts.ArtistID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Album")
		}
		return nil, errors.WithStack(err)
	}

	return album, nil
}

func (svc *Service) ListAlbums(ctx context.Context, opts ListAlbumsOptions) ([]*models.Album, error) {
	a, _, err := svc.listAlbumsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListAlbumsWithTotal(ctx context.Context, opts ListAlbumsOptions) ([]*models.Album, int, error) {
	opts.includeTotal = true
	return svc.listAlbumsWithTotal(ctx, opts)
}

func (svc *Service) listAlbumsWithTotal(ctx context.Context, opts ListAlbumsOptions) ([]*models.Album, int, error) {
	var albumList []*models.Album
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&albumList).
		Relation("Artist").
		OrderExpr("COALESCE(NULLIF(al.sort_name, ''), al.name) COLLATE NOCASE ASC")

	if opts.ArtistID != nil {
		q = q.Where("al.artist_id = ?", *opts.ArtistID)
	}
	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("al.name LIKE ?", "%"+*opts.Search+"%")
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

	return albumList, total, nil
}
