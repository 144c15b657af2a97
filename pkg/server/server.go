package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cadenzafm/cadenza/pkg/albums"
	"github.com/cadenzafm/cadenza/pkg/artists"
	"github.com/cadenzafm/cadenza/pkg/artworks"
	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/cadenzafm/cadenza/pkg/binder"
	"github.com/cadenzafm/cadenza/pkg/config"
	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/filesystem"
	"github.com/cadenzafm/cadenza/pkg/genres"
	"github.com/cadenzafm/cadenza/pkg/scanjobs"
	"github.com/cadenzafm/cadenza/pkg/search"
	"github.com/cadenzafm/cadenza/pkg/settings"
	"github.com/cadenzafm/cadenza/pkg/songs"
	"github.com/cadenzafm/cadenza/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Auth routes are public; everything else sits behind the session cookie.
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	users.RegisterRoutes(e, db, authMiddleware)
	filesystem.RegisterRoutes(e, authMiddleware)
	settings.RegisterRoutes(e, db, authMiddleware)

	registerProtectedRoutes(e, db, cfg, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func registerProtectedRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	artistsGroup := e.Group("/artists")
	artistsGroup.Use(authMiddleware.Authenticate)
	artists.RegisterRoutesWithGroup(artistsGroup, db)

	albumsGroup := e.Group("/albums")
	albumsGroup.Use(authMiddleware.Authenticate)
	albums.RegisterRoutesWithGroup(albumsGroup, db)

	genresGroup := e.Group("/genres")
	genresGroup.Use(authMiddleware.Authenticate)
	genres.RegisterRoutesWithGroup(genresGroup, db)

	songsGroup := e.Group("/songs")
	songsGroup.Use(authMiddleware.Authenticate)
	songs.RegisterRoutesWithGroup(songsGroup, db)

	searchGroup := e.Group("/search")
	searchGroup.Use(authMiddleware.Authenticate)
	search.RegisterRoutesWithGroup(searchGroup, db)

	artworksGroup := e.Group("/artworks")
	artworksGroup.Use(authMiddleware.Authenticate)
	artworks.RegisterRoutesWithGroup(artworksGroup, db, artworks.NewStorage(cfg.ArtworkDir))

	// Starting a scan requires admin; reading scan history does not.
	scanJobsGroup := e.Group("/scan-jobs")
	scanJobsGroup.Use(authMiddleware.Authenticate)
	scanjobs.RegisterRoutesWithGroup(scanJobsGroup, db, authMiddleware)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
