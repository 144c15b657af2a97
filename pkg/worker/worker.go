package worker

import (
	"context"
	"math/rand"
	"time"

	"github.com/cadenzafm/cadenza/pkg/config"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/cadenzafm/cadenza/pkg/scan"
	"github.com/cadenzafm/cadenza/pkg/scanjobs"
	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/uptrace/bun"
)

var processID = randStringBytes(8)

// Worker polls for scan jobs waiting to start and runs them one at a time.
// Scans are serialized by design: the API refuses to create a second job
// while one is in flight, and the worker runs a single processing loop.
type Worker struct {
	config *config.Config
	log    logger.Logger

	scanJobService *scanjobs.Service
	executor       *scan.Executor

	shutdown chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, db *bun.DB, observer scan.Observer) *Worker {
	return &Worker{
		config: cfg,
		log:    logger.New(),

		scanJobService: scanjobs.NewService(db),
		executor:       scan.NewExecutor(cfg, db, observer),

		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) run() {
	duration := w.config.WorkerPollInterval
	if duration <= 0 {
		duration = 5 * time.Second
	}
	timer := time.NewTimer(duration)

	for {
		select {
		case <-w.shutdown:
			w.done <- struct{}{}
			return
		case <-timer.C:
			jobList, err := w.scanJobService.ListScanJobs(context.Background(), scanjobs.ListScanJobsOptions{
				Limit:    pointerutil.Int(1),
				Statuses: []string{models.ScanJobStatusStarting},
			})
			if err != nil {
				w.log.Err(err).Error("list scan jobs error")
				timer.Reset(duration)
				continue
			}
			for _, job := range jobList {
				w.process(job)
			}
			timer.Reset(duration)
		}
	}
}

func (w *Worker) process(job *models.ScanJob) {
	id, err := uuid.NewRandom()
	if err != nil {
		w.log.Err(err).Error("new uuid error")
		return
	}
	log := w.log.ID(id.String()).Root(logger.Data{"scan_job_id": job.ID, "type": job.Type, "process_id": processID})
	ctx := log.WithContext(context.Background())

	log.Info("scan starting")

	// Run failures are already logged and persisted on the job row.
	_ = w.executor.Run(ctx, job)
}

func (w *Worker) Shutdown() {
	close(w.shutdown)
	<-w.done
}

const letterBytes = "abcdef0123456789"

func randStringBytes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.Intn(len(letterBytes))]
	}
	return string(b)
}
