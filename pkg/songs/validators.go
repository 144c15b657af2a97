package songs

type ListSongsQuery struct {
	Limit   int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset  int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	AlbumID *int    `query:"album_id" json:"album_id,omitempty"`
	GenreID *int    `query:"genre_id" json:"genre_id,omitempty"`
	Search  *string `query:"search" json:"search,omitempty"`
}
