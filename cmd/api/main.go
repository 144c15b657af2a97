package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/cadenzafm/cadenza/pkg/config"
	"github.com/cadenzafm/cadenza/pkg/database"
	"github.com/cadenzafm/cadenza/pkg/migrations"
	"github.com/cadenzafm/cadenza/pkg/scanjobs"
	"github.com/cadenzafm/cadenza/pkg/server"
	"github.com/cadenzafm/cadenza/pkg/version"
	"github.com/cadenzafm/cadenza/pkg/worker"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting cadenza", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	if err := initArtworkDir(cfg.ArtworkDir); err != nil {
		log.Err(err).Fatal("artwork directory error")
	}
	log.Info("artwork directory initialized", logger.Data{"path": cfg.ArtworkDir})

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	// Jobs left in flight by an unclean shutdown are unrecoverable. Mark them
	// before the worker starts polling so they can't be picked up as active.
	scanJobService := scanjobs.NewService(db)
	interrupted, err := scanJobService.MarkInterruptedJobs(ctx)
	if err != nil {
		log.Err(err).Fatal("scan job interruption error")
	}
	if interrupted > 0 {
		log.Warn("marked interrupted scan jobs", logger.Data{"count": interrupted})
	}

	wrkr := worker.New(cfg, db, nil)

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"port": actualPort})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	wrkr.Start()
	log.Info("worker started")

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	wrkr.Shutdown()
	log.Info("worker shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}

// initArtworkDir creates the artwork blob directory and verifies write
// permissions.
func initArtworkDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create artwork directory: %s", dir)
	}

	testFile := dir + "/.write_test"
	f, err := os.Create(testFile)
	if err != nil {
		return errors.Wrapf(err, "artwork directory is not writable: %s", dir)
	}
	f.Close()

	if err := os.Remove(testFile); err != nil {
		return errors.Wrapf(err, "failed to clean up write test file: %s", testFile)
	}

	return nil
}
