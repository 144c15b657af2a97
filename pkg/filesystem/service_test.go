package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestBrowse_EmptyDirectory(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	emptyDir := filepath.Join(tempDir, "empty")
	require.NoError(t, os.Mkdir(emptyDir, 0755))

	svc := NewService()
	resp, err := svc.Browse(BrowseOptions{Path: emptyDir, Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, resolvePath(t, emptyDir), resp.CurrentPath)
	assert.Equal(t, resolvePath(t, tempDir), resp.ParentPath)
	assert.Equal(t, 0, resp.Total)
	assert.False(t, resp.HasMore)

	// An empty folder must serialize as [], not null.
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
}

func TestBrowse_DirectoriesFirst(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "file.txt"), []byte("x"), 0644))

	svc := NewService()
	resp, err := svc.Browse(BrowseOptions{Path: tempDir, Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, resolvePath(t, tempDir), resp.CurrentPath)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "subdir", resp.Entries[0].Name)
	assert.True(t, resp.Entries[0].IsDir)
	assert.Equal(t, "file.txt", resp.Entries[1].Name)
	assert.False(t, resp.Entries[1].IsDir)
}

func TestBrowse_HiddenEntries(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, ".config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "music.mp3"), []byte("x"), 0644))

	svc := NewService()
	resp, err := svc.Browse(BrowseOptions{Path: tempDir, Limit: 50})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "music.mp3", resp.Entries[0].Name)

	resp, err = svc.Browse(BrowseOptions{Path: tempDir, Limit: 50, ShowHidden: true})
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 2)
}

func TestBrowse_SearchAndPagination(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	for _, name := range []string{"ambient", "blues", "bossa", "rock"} {
		require.NoError(t, os.Mkdir(filepath.Join(tempDir, name), 0755))
	}

	svc := NewService()
	resp, err := svc.Browse(BrowseOptions{Path: tempDir, Limit: 50, Search: "B"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.Browse(BrowseOptions{Path: tempDir, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)
	assert.Len(t, resp.Entries, 3)
	assert.True(t, resp.HasMore)

	resp, err = svc.Browse(BrowseOptions{Path: tempDir, Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "rock", resp.Entries[0].Name)
	assert.False(t, resp.HasMore)
}

func TestBrowse_MissingPath(t *testing.T) {
	t.Parallel()
	svc := NewService()
	_, err := svc.Browse(BrowseOptions{Path: "/nonexistent/folder", Limit: 50})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestBrowse_FileIsNotBrowsable(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	svc := NewService()
	_, err := svc.Browse(BrowseOptions{Path: path, Limit: 50})
	require.Error(t, err)
}
