package driving

import "context"

// SplitService rewrites bags into segments under a size cap.
type SplitService interface {
	Split(ctx context.Context, paths []string, opts SplitOptions) (*SplitResult, error)
}

// SplitOptions controls a split batch.
type SplitOptions struct {
	// Output names one explicit output bag. Only legal with a single
	// input bag, and mutually exclusive with InPlace.
	Output string

	// MaxSegmentBytes caps each written segment. Zero selects the
	// 1 GB default.
	MaxSegmentBytes int64

	// InPlace replaces the source bag with the split result.
	InPlace bool

	// Validate compares message counts before and after the rewrite.
	Validate bool
}

// SplitResult summarises a split batch.
type SplitResult struct {
	Total     int
	Succeeded int
	Outputs   []string
	Failed    []BagFailure
}

// OK reports whether every bag in the batch was split.
func (r *SplitResult) OK() bool {
	return r.Succeeded == r.Total
}
