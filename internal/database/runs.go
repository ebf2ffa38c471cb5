package database

import "database/sql"

// InsertRun records a new pipeline run and returns its ID.
func (db *DB) InsertRun(runDate, summary string, ideasGenerated int) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO runs (run_date, summary, ideas_generated) VALUES (?, ?, ?)",
		runDate, summary, ideasGenerated,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateRunCounts stores the final publish counts for a run.
func (db *DB) UpdateRunCounts(runID int64, published, failed int) error {
	_, err := db.conn.Exec(
		"UPDATE runs SET published = ?, failed = ? WHERE id = ?",
		published, failed, runID,
	)
	return err
}

// GetRuns returns all runs, most recent first.
func (db *DB) GetRuns() ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_date, summary, ideas_generated, published, failed, created_at
		FROM runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

// GetRun returns the most recent run for a date, or nil if none exists.
func (db *DB) GetRun(runDate string) (*Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_date, summary, ideas_generated, published, failed, created_at
		FROM runs WHERE run_date = ? ORDER BY created_at DESC LIMIT 1`, runDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// GetLastRunDate returns the run_date of the most recent run, or "" if the
// log is empty.
func (db *DB) GetLastRunDate() (string, error) {
	var date string
	err := db.conn.QueryRow(
		"SELECT run_date FROM runs ORDER BY created_at DESC LIMIT 1",
	).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return date, nil
}

// InsertPost records one generated post for a run and returns its ID.
func (db *DB) InsertPost(runID int64, heading, brief string, draft *string, dueDate string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO posts (run_id, heading, brief, draft, due_date) VALUES (?, ?, ?, ?, ?)",
		runID, heading, brief, draft, dueDate,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// MarkPostPublished flags a post as successfully created in Notion.
func (db *DB) MarkPostPublished(postID int64) error {
	_, err := db.conn.Exec(
		"UPDATE posts SET published = 1, error = NULL WHERE id = ?", postID,
	)
	return err
}

// MarkPostFailed records the publish error for a post.
func (db *DB) MarkPostFailed(postID int64, errText string) error {
	_, err := db.conn.Exec(
		"UPDATE posts SET published = 0, error = ? WHERE id = ?", errText, postID,
	)
	return err
}

// GetPostsForRun returns a run's posts ordered by due date.
func (db *DB) GetPostsForRun(runID int64) ([]Post, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, heading, brief, draft, due_date, published, error, created_at
		FROM posts WHERE run_id = ? ORDER BY due_date`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var published int
		if err := rows.Scan(&p.ID, &p.RunID, &p.Heading, &p.Brief, &p.Draft,
			&p.DueDate, &published, &p.Error, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Published = published != 0
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := db.conn.QueryRow("SELECT COUNT(*) FROM runs").Scan(&stats.TotalRuns); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM posts").Scan(&stats.TotalPosts); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM posts WHERE published = 1").Scan(&stats.PublishedPosts); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM posts WHERE published = 0 AND error IS NOT NULL").Scan(&stats.FailedPosts); err != nil {
		return nil, err
	}

	lastRun, err := db.GetLastRunDate()
	if err != nil {
		return nil, err
	}
	stats.LastRunDate = lastRun

	return stats, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RunDate, &r.Summary, &r.IdeasGenerated,
			&r.Published, &r.Failed, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
