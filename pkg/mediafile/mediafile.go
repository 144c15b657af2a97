// Package mediafile reads audio metadata through taglib. A read failure is
// always a per-file error: callers report the path as failed and continue.
package mediafile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.senan.xyz/taglib"
)

var yearRE = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Formats that encode at a variable bit rate by design.
var vbrFileTypes = map[string]struct{}{
	"flac": {},
	"ogg":  {},
	"oga":  {},
	"opus": {},
}

// Metadata is the structured record extracted from one audio file.
type Metadata struct {
	Path            string
	MimeType        string
	FileType        string
	SizeBytes       int64
	DurationSeconds int64
	BitRate         int64
	BitRateVariable bool

	Title       *string
	Artist      *string
	AlbumArtist *string
	Album       *string
	Genre       *string
	Year        *int
	DiscNumber  *int
	DiscCount   *int
	TrackNumber *int
	TrackCount  *int
}

func (m *Metadata) String() string {
	title := ""
	if m.Title != nil {
		title = *m.Title
	}
	return fmt.Sprintf("%s (%s)", title, m.Path)
}

// Read extracts metadata from the audio file at path.
func Read(path string) (*Metadata, error) {
	stats, err := os.Stat(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tags from %s", path)
	}

	properties, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read audio properties from %s", path)
	}
	// taglib parses arbitrary bytes as an empty-tagged file without erroring.
	// A file with neither duration nor bit rate has no audio stream.
	if properties.Length == 0 && properties.Bitrate == 0 {
		return nil, errors.Errorf("no audio stream in %s", path)
	}

	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	mimeType := "audio/" + fileType
	if mtype, err := mimetype.DetectFile(path); err == nil {
		mimeType = mtype.String()
	}

	_, variable := vbrFileTypes[fileType]
	m := &Metadata{
		Path:            path,
		MimeType:        mimeType,
		FileType:        fileType,
		SizeBytes:       stats.Size(),
		DurationSeconds: int64(properties.Length.Seconds()),
		BitRate:         int64(properties.Bitrate),
		BitRateVariable: variable,
	}

	m.Title = tagValue(tags, taglib.Title)
	m.Artist = tagValue(tags, taglib.Artist)
	m.AlbumArtist = tagValue(tags, taglib.AlbumArtist)
	m.Album = tagValue(tags, taglib.Album)
	m.Genre = tagValue(tags, taglib.Genre)
	m.Year = parseYear(tagValue(tags, taglib.Date))
	m.TrackNumber, m.TrackCount = parseNumberPair(tagValue(tags, taglib.TrackNumber))
	m.DiscNumber, m.DiscCount = parseNumberPair(tagValue(tags, taglib.DiscNumber))

	return m, nil
}

func tagValue(tags map[string][]string, key string) *string {
	for _, value := range tags[key] {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

// parseNumberPair handles both plain "3" and "3/12" track/disc tags.
func parseNumberPair(value *string) (*int, *int) {
	if value == nil {
		return nil, nil
	}
	parts := strings.SplitN(*value, "/", 2)

	var number, count *int
	if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil && n > 0 {
		number = &n
	}
	if len(parts) == 2 {
		if c, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && c > 0 {
			count = &c
		}
	}
	return number, count
}

func parseYear(value *string) *int {
	if value == nil {
		return nil
	}
	match := yearRE.FindString(*value)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}
