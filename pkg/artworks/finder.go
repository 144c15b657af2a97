package artworks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/filetree"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"go.senan.xyz/taglib"
)

// Filenames that conventionally hold album artwork, in preference order.
var coverBaseNames = []string{"cover", "folder", "front", "album", "artwork"}

// Finder resolves artwork for an audio node: embedded art from the file's
// tags first, then a conventionally named image in the same folder. Found
// payloads are committed to storage before the Artwork row is returned.
type Finder struct {
	service *Service
	storage *Storage
}

func NewFinder(service *Service, storage *Storage) *Finder {
	return &Finder{service: service, storage: storage}
}

// Find returns the artwork for an audio node, or nil when the file has no
// embedded art and no co-located cover image. The second return reports
// whether the artwork row was created by this call.
func (f *Finder) Find(ctx context.Context, audioNode *filetree.AudioNode) (*models.Artwork, bool, error) {
	if data, err := taglib.ReadImage(audioNode.Path()); err == nil && len(data) > 0 {
		return f.findOrCreate(ctx, data, models.ArtworkSourceEmbedded, audioNode.Path())
	}

	imageNode := colocatedImage(audioNode)
	if imageNode == nil {
		return nil, false, nil
	}

	data, err := os.ReadFile(imageNode.Path())
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	return f.findOrCreate(ctx, data, models.ArtworkSourceFile, imageNode.Path())
}

func (f *Finder) findOrCreate(ctx context.Context, data []byte, scheme, sourcePath string) (*models.Artwork, bool, error) {
	checksum := Checksum(data)

	artwork, err := f.service.RetrieveArtwork(ctx, RetrieveArtworkOptions{Checksum: &checksum})
	if err == nil {
		return artwork, false, nil
	}
	if !errors.Is(err, errcodes.NotFound("Artwork")) {
		return nil, false, err
	}

	if _, err := f.storage.Store(data); err != nil {
		return nil, false, err
	}

	stats, err := os.Stat(sourcePath)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	artwork = &models.Artwork{
		Checksum:     checksum,
		MimeType:     mimetype.Detect(data).String(),
		SizeBytes:    int64(len(data)),
		SourceScheme: scheme,
		SourcePath:   sourcePath,
		SourceDate:   stats.ModTime(),
	}
	if err := f.service.CreateArtwork(ctx, artwork); err != nil {
		return nil, false, err
	}

	return artwork, true, nil
}

// colocatedImage picks the best cover candidate among the images in the
// audio file's folder.
func colocatedImage(audioNode *filetree.AudioNode) *filetree.ImageNode {
	folder := audioNode.ParentFolder()
	if folder == nil {
		return nil
	}

	for _, base := range coverBaseNames {
		for _, imageNode := range folder.ChildImages {
			name := strings.ToLower(filepath.Base(imageNode.Path()))
			if strings.TrimSuffix(name, filepath.Ext(name)) == base {
				return imageNode
			}
		}
	}

	if len(folder.ChildImages) > 0 {
		return folder.ChildImages[0]
	}
	return nil
}
