// Package filesystem backs the library folder picker: it lists server-side
// directories so admins can choose scan targets without shell access.
package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// BrowseOptions mirrors BrowseQuery so handlers can convert directly.
type BrowseOptions BrowseQuery

// Browse lists the entries of one folder, directories first. Hidden entries
// are skipped unless requested, matching what the scanner itself indexes.
func (s *Service) Browse(opts BrowseOptions) (*BrowseResponse, error) {
	path := opts.Path
	if path == "" {
		path = "/"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Resolve symlinks so the reported paths match what a scan would walk. A
	// path that cannot be resolved is kept as is and fails the Stat below.
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		realPath = absPath
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, os.ErrInvalid
	}

	dirEntries, err := os.ReadDir(realPath)
	if err != nil {
		return nil, err
	}

	// Entries stays non-nil so an empty folder serializes as [].
	entries := []Entry{}
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()

		if !opts.ShowHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if opts.Search != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(opts.Search)) {
			continue
		}

		entries = append(entries, Entry{
			Name:  name,
			Path:  filepath.Join(realPath, name),
			IsDir: dirEntry.IsDir(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	total := len(entries)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	parentPath := ""
	if realPath != "/" {
		parentPath = filepath.Dir(realPath)
	}

	return &BrowseResponse{
		CurrentPath: realPath,
		ParentPath:  parentPath,
		Entries:     entries[start:end],
		Total:       total,
		HasMore:     end < total,
	}, nil
}
