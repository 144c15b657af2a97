package scanjobs

import (
	"net/http"
	"strconv"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	scanJobService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := CreateScanJobPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Only one scan may run at a time. This check gives a clean 409 early;
	// the unique index on scan_jobs backstops it when requests race.
	hasActive, err := h.scanJobService.HasActiveJob(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if hasActive {
		return errcodes.Conflict("A scan is already running.")
	}

	job := &models.ScanJob{
		Type:              params.Type,
		Status:            models.ScanJobStatusStarting,
		TargetPathsParsed: params.TargetPaths,
	}

	err = h.scanJobService.CreateScanJob(ctx, job)
	if err != nil {
		return errors.WithStack(err)
	}

	job, err = h.scanJobService.RetrieveScanJob(ctx, RetrieveScanJobOptions{
		ID: &job.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, job))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Scan job")
	}

	job, err := h.scanJobService.RetrieveScanJob(ctx, RetrieveScanJobOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, job))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	// Bind params.
	params := ListScanJobsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	jobList, total, err := h.scanJobService.ListScanJobsWithTotal(ctx, ListScanJobsOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Statuses: params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		ScanJobs []*models.ScanJob `json:"scan_jobs"`
		Total    int               `json:"total"`
	}{jobList, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
