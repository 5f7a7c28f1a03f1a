package store

// Experience represents one immutable record of an attempted automation
// action and its outcome. Rows are append-only; they are never updated or
// deleted once written.
type Experience struct {
	ID         int64
	UID        string
	ActionKind string // product_creation / marketing_campaign / trend_analysis / ...
	Context    string // JSON document of the action context
	Result     string // JSON document of the action result
	Success    bool
	Revenue    float64
	Lesson     string
	CreatedTs  int64
}

// FindExperience specifies the conditions for finding experiences.
type FindExperience struct {
	ID           *int64
	UID          *string
	ActionKind   *string
	Success      *bool
	CreatedAfter *int64 // Unix seconds; only rows created at or after this instant
	Limit        int
	Offset       int
}
