package scanjobs

type CreateScanJobPayload struct {
	Type        string   `json:"type" default:"full" validate:"oneof=full edit"`
	// TargetPaths may be empty, in which case the configured library folders
	// are scanned.
	TargetPaths []string `json:"target_paths" validate:"omitempty,dive,required"`
}

type ListScanJobsQuery struct {
	Limit  int      `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int      `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status []string `query:"status" json:"status,omitempty" validate:"dive,oneof=starting started complete failed interrupted"`
}
