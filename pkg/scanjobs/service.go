package scanjobs

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// singleInFlightIndex guards scan_jobs against concurrent in-flight rows. The
// driver surfaces a violation as a plain error, so it is matched by name.
const singleInFlightIndex = "ux_scan_jobs_single_in_flight"

type RetrieveScanJobOptions struct {
	ID *int
}

type ListScanJobsOptions struct {
	Limit    *int
	Offset   *int
	Statuses []string

	includeTotal bool
}

type UpdateScanJobOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateScanJob(ctx context.Context, job *models.ScanJob) error {
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = job.CreatedAt

	if err := job.MarshalData(); err != nil {
		return errors.WithStack(err)
	}

	_, err := svc.db.
		NewInsert().
		Model(job).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), singleInFlightIndex) {
			return errcodes.Conflict("A scan is already running.")
		}
		return errors.WithStack(err)
	}

	return nil
}

func (svc *Service) RetrieveScanJob(ctx context.Context, opts RetrieveScanJobOptions) (*models.ScanJob, error) {
	job := &models.ScanJob{}

	q := svc.db.
		NewSelect().
		Model(job)

	if opts.ID != nil {
		q = q.Where("sj.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Scan job")
		}
		return nil, errors.WithStack(err)
	}

	if err := job.UnmarshalData(); err != nil {
		return nil, errors.WithStack(err)
	}

	return job, nil
}

func (svc *Service) ListScanJobs(ctx context.Context, opts ListScanJobsOptions) ([]*models.ScanJob, error) {
	j, _, err := svc.listScanJobsWithTotal(ctx, opts)
	return j, errors.WithStack(err)
}

func (svc *Service) ListScanJobsWithTotal(ctx context.Context, opts ListScanJobsOptions) ([]*models.ScanJob, int, error) {
	opts.includeTotal = true
	return svc.listScanJobsWithTotal(ctx, opts)
}

func (svc *Service) listScanJobsWithTotal(ctx context.Context, opts ListScanJobsOptions) ([]*models.ScanJob, int, error) {
	jobList := []*models.ScanJob{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&jobList).
		Order("sj.created_at DESC", "sj.id DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.Statuses != nil {
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			for _, s := range opts.Statuses {
				sq = sq.WhereOr("sj.status = ?", s)
			}
			return sq
		})
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	for _, job := range jobList {
		if err := job.UnmarshalData(); err != nil {
			return nil, 0, errors.WithStack(err)
		}
	}

	return jobList, total, nil
}

// HasActiveJob checks if a scan job is currently starting or started. Only
// one scan may be in flight at a time.
func (svc *Service) HasActiveJob(ctx context.Context) (bool, error) {
	count, err := svc.db.NewSelect().
		Model((*models.ScanJob)(nil)).
		Where("sj.status IN (?)", bun.In(models.ScanJobInFlightStatuses)).
		Count(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return count > 0, nil
}

func (svc *Service) UpdateScanJob(ctx context.Context, job *models.ScanJob, opts UpdateScanJobOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	if err := job.MarshalData(); err != nil {
		return errors.WithStack(err)
	}

	// Update updated_at.
	now := time.Now()
	job.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(job).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Scan job")
		}
		return errors.WithStack(err)
	}

	return nil
}

// MarkInterruptedJobs flips any job left in a non-terminal status to
// interrupted. It runs once at process startup, before the worker begins
// polling, so jobs orphaned by an unclean shutdown don't read as active
// forever.
func (svc *Service) MarkInterruptedJobs(ctx context.Context) (int, error) {
	res, err := svc.db.
		NewUpdate().
		Model((*models.ScanJob)(nil)).
		Set("status = ?", models.ScanJobStatusInterrupted).
		Set("updated_at = ?", time.Now()).
		Where("sj.status IN (?)", bun.In(models.ScanJobInFlightStatuses)).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int(affected), nil
}
