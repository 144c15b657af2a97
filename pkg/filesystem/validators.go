package filesystem

type BrowseQuery struct {
	Path       string `query:"path" json:"path,omitempty" default:"/"`
	ShowHidden bool   `query:"show_hidden" json:"show_hidden,omitempty"`
	Limit      int    `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=100"`
	Offset     int    `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search     string `query:"search" json:"search,omitempty"`
}

// Entry is one file or folder inside the browsed path.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

type BrowseResponse struct {
	CurrentPath string  `json:"current_path"`
	ParentPath  string  `json:"parent_path,omitempty"`
	Entries     []Entry `json:"entries"`
	Total       int     `json:"total"`
	HasMore     bool    `json:"has_more"`
}
