package search

import (
	"context"

	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const (
	globalSearchLimit = 5
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// GlobalSearch searches across songs, artists, albums, and genres.
// Returns up to 5 results per resource type for popover display.
func (svc *Service) GlobalSearch(ctx context.Context, query string) (*GlobalSearchResponse, error) {
	pattern := BuildContainsPattern(query)
	if pattern == "" {
		return emptyResponse(), nil
	}

	songs, err := svc.searchSongs(ctx, pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	artists, err := svc.searchArtists(ctx, pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	albums, err := svc.searchAlbums(ctx, pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	genres, err := svc.searchGenres(ctx, pattern)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &GlobalSearchResponse{
		Songs:   songs,
		Artists: artists,
		Albums:  albums,
		Genres:  genres,
	}, nil
}

func emptyResponse() *GlobalSearchResponse {
	return &GlobalSearchResponse{
		Songs:   []*models.Song{},
		Artists: []*models.Artist{},
		Albums:  []*models.Album{},
		Genres:  []*models.Genre{},
	}
}

func (svc *Service) searchSongs(ctx context.Context, pattern string) ([]*models.Song, error) {
	songs := []*models.Song{}
	err := svc.db.NewSelect().
		Model(&songs).
		Relation("Album").
		Relation("Album.Artist").
		Where(`s.name LIKE ? ESCAPE '\'`, pattern).
		Order("s.name ASC").
		Limit(globalSearchLimit).
		Scan(ctx)
	return songs, errors.WithStack(err)
}

func (svc *Service) searchArtists(ctx context.Context, pattern string) ([]*models.Artist, error) {
	artists := []*models.Artist{}
	err := svc.db.NewSelect().
		Model(&artists).
		Where(`ar.name LIKE ? ESCAPE '\'`, pattern).
		Order("ar.name ASC").
		Limit(globalSearchLimit).
		Scan(ctx)
	return artists, errors.WithStack(err)
}

func (svc *Service) searchAlbums(ctx context.Context, pattern string) ([]*models.Album, error) {
	albums := []*models.Album{}
	err := svc.db.NewSelect().
		Model(&albums).
		Relation("Artist").
		Where(`al.name LIKE ? ESCAPE '\'`, pattern).
		Order("al.name ASC").
		Limit(globalSearchLimit).
		Scan(ctx)
	return albums, errors.WithStack(err)
}

func (svc *Service) searchGenres(ctx context.Context, pattern string) ([]*models.Genre, error) {
	genres := []*models.Genre{}
	err := svc.db.NewSelect().
		Model(&genres).
		Where(`g.name LIKE ? ESCAPE '\'`, pattern).
		Order("g.name ASC").
		Limit(globalSearchLimit).
		Scan(ctx)
	return genres, errors.WithStack(err)
}
