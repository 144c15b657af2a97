package albums

type ListAlbumsQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	ArtistID *int    `query:"artist_id" json:"artist_id,omitempty"`
	Search   *string `query:"search" json:"search,omitempty"`
}
