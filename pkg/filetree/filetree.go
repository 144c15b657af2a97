// Package filetree walks a library folder and classifies every file as
// audio, image, or other. The resulting tree is the authoritative view of
// the filesystem for one scan pass: re-walking an unchanged tree yields an
// equivalent result.
package filetree

// Node is a single entry in the walked tree.
type Node interface {
	Path() string
	ParentFolder() *FolderNode
}

// FolderNode is a directory. Child slices hold only the direct children;
// use AllAudios/AllImages for the recursive view.
type FolderNode struct {
	path   string
	parent *FolderNode

	ChildFolders []*FolderNode
	ChildAudios  []*AudioNode
	ChildImages  []*ImageNode
}

func (n *FolderNode) Path() string              { return n.path }
func (n *FolderNode) ParentFolder() *FolderNode { return n.parent }

// AllAudios returns every audio node under this folder, depth-first.
func (n *FolderNode) AllAudios() []*AudioNode {
	audios := append([]*AudioNode{}, n.ChildAudios...)
	for _, folder := range n.ChildFolders {
		audios = append(audios, folder.AllAudios()...)
	}
	return audios
}

// AllImages returns every image node under this folder, depth-first.
func (n *FolderNode) AllImages() []*ImageNode {
	images := append([]*ImageNode{}, n.ChildImages...)
	for _, folder := range n.ChildFolders {
		images = append(images, folder.AllImages()...)
	}
	return images
}

// NewFolder creates a folder node and attaches it to its parent. A nil
// parent makes it a root.
func NewFolder(path string, parent *FolderNode) *FolderNode {
	folder := &FolderNode{path: path, parent: parent}
	if parent != nil {
		parent.ChildFolders = append(parent.ChildFolders, folder)
	}
	return folder
}

// NewAudio creates an audio node and attaches it to its parent folder.
func NewAudio(path string, parent *FolderNode) *AudioNode {
	audio := &AudioNode{path: path, parent: parent}
	if parent != nil {
		parent.ChildAudios = append(parent.ChildAudios, audio)
	}
	return audio
}

// NewImage creates an image node and attaches it to its parent folder.
func NewImage(path string, parent *FolderNode) *ImageNode {
	image := &ImageNode{path: path, parent: parent}
	if parent != nil {
		parent.ChildImages = append(parent.ChildImages, image)
	}
	return image
}

// AudioNode is a playable audio file.
type AudioNode struct {
	path   string
	parent *FolderNode
}

func (n *AudioNode) Path() string              { return n.path }
func (n *AudioNode) ParentFolder() *FolderNode { return n.parent }

// ImageNode is an image file, a candidate for co-located album artwork.
type ImageNode struct {
	path   string
	parent *FolderNode
}

func (n *ImageNode) Path() string              { return n.path }
func (n *ImageNode) ParentFolder() *FolderNode { return n.parent }

// Tree is the result of walking one root folder.
type Tree struct {
	Root *FolderNode
	// FailedPaths lists entries that could not be read. An unreadable
	// folder never aborts the walk.
	FailedPaths []string
}

// AllAudios returns every audio node in the tree.
func (t *Tree) AllAudios() []*AudioNode {
	if t.Root == nil {
		return nil
	}
	return t.Root.AllAudios()
}

// AllImages returns every image node in the tree.
func (t *Tree) AllImages() []*ImageNode {
	if t.Root == nil {
		return nil
	}
	return t.Root.AllImages()
}
