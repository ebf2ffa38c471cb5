package database

// Run is one pipeline execution recorded in the local run log.
type Run struct {
	ID             int64
	RunDate        string // YYYY-MM-DD
	Summary        string
	IdeasGenerated int
	Published      int
	Failed         int
	CreatedAt      string
}

// Post is one generated post recorded for a run.
type Post struct {
	ID        int64
	RunID     int64
	Heading   string
	Brief     string
	Draft     *string
	DueDate   string // YYYY-MM-DD
	Published bool
	Error     *string
	CreatedAt string
}

// Stats summarizes the run log for the status command.
type Stats struct {
	TotalRuns      int
	TotalPosts     int
	PublishedPosts int
	FailedPosts    int
	LastRunDate    string
}
