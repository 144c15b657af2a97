package scan

import (
	"context"

	"github.com/robinjoseph08/golib/logger"
)

// Steps of a scan, in the order they run.
const (
	StepPreparing         = "preparing"
	StepSearchingMedia    = "searching_media"
	StepCleaningSongs     = "cleaning_songs"
	StepCleaningArtworks  = "cleaning_artworks"
	StepImporting         = "importing"
	StepSearchingArtworks = "searching_artworks"
)

// Progress is a point-in-time snapshot of a running scan. ItemsTotal is zero
// for steps whose size isn't known up front.
type Progress struct {
	Step          string
	ItemsComplete int
	ItemsTotal    int
}

// Observer receives progress snapshots during a scan. Observers are advisory:
// a panicking or failing observer never affects the scan itself.
type Observer func(p Progress)

// notifyObserver delivers a snapshot, swallowing observer panics so a broken
// listener can't take down a scan.
func notifyObserver(ctx context.Context, observer Observer, p Progress) {
	if observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log := logger.FromContext(ctx)
			log.Warn("scan progress observer panicked", logger.Data{
				"step":  p.Step,
				"panic": r,
			})
		}
	}()
	observer(p)
}
