package artworks

import (
	"context"
	"database/sql"
	"time"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveArtworkOptions struct {
	ID       *int
	Checksum *string
}

// ListArtworksOptions pages by primary key so the batch cleaner can iterate
// stably while rows are deleted underneath it.
type ListArtworksOptions struct {
	AfterID *int
	Limit   *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateArtwork(ctx context.Context, artwork *models.Artwork) error {
	now := time.Now()
	if artwork.CreatedAt.IsZero() {
		artwork.CreatedAt = now
	}
	artwork.UpdatedAt = artwork.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(artwork).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveArtwork(ctx context.Context, opts RetrieveArtworkOptions) (*models.Artwork, error) {
	artwork := &models.Artwork{}

	q := svc.db.
		NewSelect().
		Model(artwork)

	if opts.ID != nil {
		q = q.Where("aw.id = ?", *opts.ID)
	}
	if opts.Checksum != nil {
		q = q.Where("aw.checksum = ?", *opts.Checksum)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Artwork")
		}
		return nil, errors.WithStack(err)
	}

	return artwork, nil
}

func (svc *Service) ListArtworks(ctx context.Context, opts ListArtworksOptions) ([]*models.Artwork, error) {
	var artworkList []*models.Artwork

	q := svc.db.
		NewSelect().
		Model(&artworkList).
		Order("aw.id ASC")

	if opts.AfterID != nil {
		q = q.Where("aw.id > ?", *opts.AfterID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return artworkList, nil
}
