package filetree

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// Extensions worth sniffing. Files can carry any extension, so the walker
// confirms the detected mime type before classifying a node.
var audioExtensions = map[string]struct{}{
	".aac":  {},
	".aif":  {},
	".aiff": {},
	".flac": {},
	".m4a":  {},
	".mp3":  {},
	".ogg":  {},
	".oga":  {},
	".opus": {},
	".wav":  {},
	".wma":  {},
}

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".webp": {},
}

// Walk builds a tree of classified nodes rooted at rootPath. Unreadable
// entries are recorded in Tree.FailedPaths rather than aborting the walk.
func Walk(rootPath string) (*Tree, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a folder", absRoot)
	}

	tree := &Tree{Root: &FolderNode{path: absRoot}}
	folders := map[string]*FolderNode{absRoot: tree.Root}

	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			tree.FailedPaths = append(tree.FailedPaths, path)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}
		// Dotfiles and dot-folders (.Trash, .sync, resource forks) are not
		// library content.
		if strings.HasPrefix(filepath.Base(path), ".") {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent := folders[filepath.Dir(path)]
		if parent == nil {
			// Parent was unreadable and already recorded as failed.
			return nil
		}

		if entry.IsDir() {
			folder := &FolderNode{path: path, parent: parent}
			parent.ChildFolders = append(parent.ChildFolders, folder)
			folders[path] = folder
			return nil
		}

		switch classify(path) {
		case kindAudio:
			parent.ChildAudios = append(parent.ChildAudios, &AudioNode{path: path, parent: parent})
		case kindImage:
			parent.ChildImages = append(parent.ChildImages, &ImageNode{path: path, parent: parent})
		}

		return nil
	})
	if walkErr != nil {
		return nil, errors.WithStack(walkErr)
	}

	return tree, nil
}

type fileKind int

const (
	kindOther fileKind = iota
	kindAudio
	kindImage
)

func classify(path string) fileKind {
	ext := strings.ToLower(filepath.Ext(path))
	_, isAudioExt := audioExtensions[ext]
	_, isImageExt := imageExtensions[ext]
	if !isAudioExt && !isImageExt {
		return kindOther
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		// Unreadable or unrecognizable content: trust the extension.
		if isAudioExt {
			return kindAudio
		}
		return kindImage
	}

	switch {
	case strings.HasPrefix(mtype.String(), "audio/"), mtype.Is("video/mp4"):
		// .m4a files sometimes sniff as video/mp4.
		return kindAudio
	case strings.HasPrefix(mtype.String(), "image/"):
		return kindImage
	default:
		if isAudioExt {
			return kindAudio
		}
		return kindOther
	}
}
