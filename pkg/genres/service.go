package genres

import (
	"context"
	"database/sql"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveGenreOptions struct {
	ID   *int
	Name *string
}

type ListGenresOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveGenre(ctx context.Context, opts RetrieveGenreOptions) (*models.Genre, error) {
	genre := &models.Genre{}

	q := svc.db.
		NewSelect().
		Model(genre).
		Relation("Artwork")

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("g.name = ?", *opts.Name)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, error) {
	g, _, err := svc.listGenresWithTotal(ctx, opts)
	return g, errors.WithStack(err)
}

func (svc *Service) ListGenresWithTotal(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, int, error) {
	opts.includeTotal = true
	return svc.listGenresWithTotal(ctx, opts)
}

func (svc *Service) listGenresWithTotal(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, int, error) {
	var genreList []*models.Genre
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&genreList).
		Order("g.name ASC")

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

	return genreList, total, nil
}

// GetSongCount returns the number of songs referencing this genre.
func (svc *Service) GetSongCount(ctx context.Context, genreID int) (int, error) {
	count, err := svc.db.NewSelect().
		Model((*models.Song)(nil)).
		Where("genre_id = ?", genreID).
		Count(ctx)
	return count, errors.WithStack(err)
}
