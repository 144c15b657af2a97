package artists

import (
	"context"
	"database/sql"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveArtistOptions struct {
	ID   *int
	Name *string
}

type ListArtistsOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveArtist(ctx context.Context, opts RetrieveArtistOptions) (*models.Artist, error) {
	artist := &models.Artist{}

	q := svc.db.
		NewSelect().
		Model(artist).
		Relation("Artwork")

	if opts.ID != nil {
		q = q.Where("ar.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("ar.name = ?", *opts.Name)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Artist")
		}
		return nil, errors.WithStack(err)
	}

	return artist, nil
}

func (svc *Service) ListArtists(ctx context.Context, opts ListArtistsOptions) ([]*models.Artist, error) {
	a, _, err := svc.listArtistsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListArtistsWithTotal(ctx context.Context, opts ListArtistsOptions) ([]*models.Artist, int, error) {
	opts.includeTotal = true
	return svc.listArtistsWithTotal(ctx, opts)
}

func (svc *Service) listArtistsWithTotal(ctx context.Context, opts ListArtistsOptions) ([]*models.Artist, int, error) {
	var artistList []*models.Artist
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&artistList).
		OrderExpr("COALESCE(NULLIF(ar.sort_name, ''), ar.name) COLLATE NOCASE ASC")

	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("ar.name LIKE ?", "%"+*opts.Search+"%")
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

	return artistList, total, nil
}
