package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const (
	ScanJobStatusStarting    = "starting"
	ScanJobStatusStarted     = "started"
	ScanJobStatusComplete    = "complete"
	ScanJobStatusFailed      = "failed"
	ScanJobStatusInterrupted = "interrupted"
)

const (
	ScanTypeFull = "full"
	ScanTypeEdit = "edit"
)

// ScanJobInFlightStatuses are the non-terminal statuses. A job found in one
// of these at process startup was interrupted by an unclean shutdown.
var ScanJobInFlightStatuses = []string{ScanJobStatusStarting, ScanJobStatusStarted}

// ScanResult aggregates what a completed scan did. It is stored as a JSON
// column on the scan job and retained for history.
type ScanResult struct {
	DurationMillis      int64 `json:"duration_millis"`
	ProcessedAudioFiles int   `json:"processed_audio_files"`
	SongSizeBytes       int64 `json:"song_size_bytes"`
	ArtworkSizeBytes    int64 `json:"artwork_size_bytes"`

	CreatedArtists int `json:"created_artists"`
	UpdatedArtists int `json:"updated_artists"`
	DeletedArtists int `json:"deleted_artists"`

	CreatedAlbums int `json:"created_albums"`
	UpdatedAlbums int `json:"updated_albums"`
	DeletedAlbums int `json:"deleted_albums"`

	CreatedGenres int `json:"created_genres"`
	UpdatedGenres int `json:"updated_genres"`
	DeletedGenres int `json:"deleted_genres"`

	CreatedSongs int `json:"created_songs"`
	UpdatedSongs int `json:"updated_songs"`
	DeletedSongs int `json:"deleted_songs"`

	CreatedArtworks int `json:"created_artworks"`
	DeletedArtworks int `json:"deleted_artworks"`
}

type ScanJob struct {
	bun.BaseModel `bun:"table:scan_jobs,alias:sj"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Type      string    `bun:",nullzero" json:"type"`
	Status    string    `bun:",nullzero" json:"status"`

	TargetPaths       string   `bun:",nullzero" json:"-"`
	TargetPathsParsed []string `bun:"-" json:"target_paths"`
	FailedPaths       string   `json:"-"`
	FailedPathsParsed []string `bun:"-" json:"failed_paths"`

	LogMessage *string `json:"log_message,omitempty"`

	Result       string      `json:"-"`
	ResultParsed *ScanResult `bun:"-" json:"result,omitempty"`
}

// MarshalData serializes the parsed path lists and result into their string
// columns before a write.
func (job *ScanJob) MarshalData() error {
	target, err := json.Marshal(job.TargetPathsParsed)
	if err != nil {
		return errors.WithStack(err)
	}
	job.TargetPaths = string(target)

	failed, err := json.Marshal(job.FailedPathsParsed)
	if err != nil {
		return errors.WithStack(err)
	}
	job.FailedPaths = string(failed)

	if job.ResultParsed != nil {
		result, err := json.Marshal(job.ResultParsed)
		if err != nil {
			return errors.WithStack(err)
		}
		job.Result = string(result)
	}

	return nil
}

// UnmarshalData populates the parsed fields from the string columns after a
// read.
func (job *ScanJob) UnmarshalData() error {
	if job.TargetPaths != "" {
		if err := json.Unmarshal([]byte(job.TargetPaths), &job.TargetPathsParsed); err != nil {
			return errors.WithStack(err)
		}
	}
	if job.FailedPaths != "" {
		if err := json.Unmarshal([]byte(job.FailedPaths), &job.FailedPathsParsed); err != nil {
			return errors.WithStack(err)
		}
	}
	if job.Result != "" {
		job.ResultParsed = &ScanResult{}
		if err := json.Unmarshal([]byte(job.Result), job.ResultParsed); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
