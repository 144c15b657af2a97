package filetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

// A minimal valid PNG header so content sniffing agrees with the extension.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestWalk_ClassifiesFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "artist", "album", "01.mp3"), []byte("audio bytes"))
	writeFile(t, filepath.Join(dir, "artist", "album", "02.flac"), []byte("audio bytes"))
	writeFile(t, filepath.Join(dir, "artist", "album", "cover.png"), pngHeader)
	writeFile(t, filepath.Join(dir, "artist", "album", "notes.txt"), []byte("liner notes"))

	tree, err := Walk(dir)
	require.NoError(t, err)
	require.NotNil(t, tree.Root)

	audios := tree.AllAudios()
	require.Len(t, audios, 2)

	images := tree.AllImages()
	require.Len(t, images, 1)
	assert.Equal(t, "cover.png", filepath.Base(images[0].Path()))

	assert.Empty(t, tree.FailedPaths)
}

func TestWalk_ParentFolders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "artist", "album", "01.mp3"), []byte("audio bytes"))

	tree, err := Walk(dir)
	require.NoError(t, err)

	audios := tree.AllAudios()
	require.Len(t, audios, 1)

	album := audios[0].ParentFolder()
	require.NotNil(t, album)
	assert.Equal(t, "album", filepath.Base(album.Path()))

	artist := album.ParentFolder()
	require.NotNil(t, artist)
	assert.Equal(t, "artist", filepath.Base(artist.Path()))

	root := artist.ParentFolder()
	require.NotNil(t, root)
	assert.Nil(t, root.ParentFolder())
}

func TestWalk_NotAFolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.mp3")
	writeFile(t, path, []byte("audio bytes"))

	_, err := Walk(path)
	require.Error(t, err)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := Walk("/nonexistent/library")
	require.Error(t, err)
}

func TestWalk_SkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "album", "01.mp3"), []byte("audio bytes"))
	writeFile(t, filepath.Join(dir, "album", ".hidden.mp3"), []byte("audio bytes"))
	writeFile(t, filepath.Join(dir, ".Trash", "02.mp3"), []byte("audio bytes"))

	tree, err := Walk(dir)
	require.NoError(t, err)

	audios := tree.AllAudios()
	require.Len(t, audios, 1)
	assert.Equal(t, "01.mp3", filepath.Base(audios[0].Path()))
	assert.Empty(t, tree.FailedPaths)
}

func TestWalk_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "playlist.m3u"), []byte("#EXTM3U"))
	writeFile(t, filepath.Join(dir, "README.md"), []byte("# hi"))

	tree, err := Walk(dir)
	require.NoError(t, err)
	assert.Empty(t, tree.AllAudios())
	assert.Empty(t, tree.AllImages())
}

func TestFolderNode_RecursiveCollection(t *testing.T) {
	root := NewFolder("/music", nil)
	sub := NewFolder("/music/album", root)
	NewAudio("/music/top.mp3", root)
	NewAudio("/music/album/01.mp3", sub)
	NewAudio("/music/album/02.mp3", sub)
	NewImage("/music/album/cover.jpg", sub)

	assert.Len(t, root.AllAudios(), 3)
	assert.Len(t, root.AllImages(), 1)
	assert.Len(t, sub.AllAudios(), 2)
}
