package gen

import "github.com/google/uuid"

// Stats accumulates the counters of one generation run. RejectedCount is
// scoped to filter and parse rejections; duplicates dropped after a
// successful parse are tracked separately.
type Stats struct {
	RunID         string
	TotalConfigs  int
	BestConfigs   int
	RejectedCount int
	Duplicates    int
	WriteFailures int
}

// NewStats returns zeroed counters with a fresh run ID.
func NewStats() Stats {
	return Stats{RunID: uuid.NewString()}
}
