package store

// Pattern is an aggregated, continuously updated statistical summary of all
// past successes sharing an (action kind, niche) key.
//
// Invariant: UsageCount equals the number of successful experiences folded
// into the row; SuccessRate and AvgRevenue are running means over exactly
// UsageCount folds.
type Pattern struct {
	ID          int64
	UID         string
	ActionKind  string
	Niche       string
	Data        string // JSON snapshot of the first success (niche, price, keywords, success_factors)
	SuccessRate float64
	AvgRevenue  float64
	UsageCount  int64
	LastUsedTs  int64
}

// FoldPattern carries one successful outcome into the (action kind, niche)
// aggregate. The UID and Data are only used when the fold creates the row.
type FoldPattern struct {
	UID        string
	ActionKind string
	Niche      string
	Data       string
	Revenue    float64
	LastUsedTs int64
}

// FindPattern specifies the conditions for finding patterns.
type FindPattern struct {
	ID         *int64
	ActionKind *string
	Niche      *string
	Limit      int
}
