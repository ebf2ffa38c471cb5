package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestInsertAndGetRun(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertRun("2026-08-26", "Last week: ...", 5)
	if err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero run ID")
	}

	run, err := db.GetRun("2026-08-26")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil {
		t.Fatal("expected run")
	}
	if run.IdeasGenerated != 5 {
		t.Errorf("expected 5 ideas, got %d", run.IdeasGenerated)
	}
	if run.Summary != "Last week: ..." {
		t.Errorf("unexpected summary %q", run.Summary)
	}
}

func TestGetRunMissing(t *testing.T) {
	db := openTestDB(t)
	run, err := db.GetRun("2026-01-01")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run != nil {
		t.Error("expected nil for missing run")
	}
}

func TestUpdateRunCounts(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.InsertRun("2026-08-26", "summary", 5)

	if err := db.UpdateRunCounts(id, 4, 1); err != nil {
		t.Fatalf("UpdateRunCounts failed: %v", err)
	}

	run, _ := db.GetRun("2026-08-26")
	if run.Published != 4 || run.Failed != 1 {
		t.Errorf("expected 4 published / 1 failed, got %d/%d", run.Published, run.Failed)
	}
}

func TestGetLastRunDate(t *testing.T) {
	db := openTestDB(t)

	date, err := db.GetLastRunDate()
	if err != nil {
		t.Fatalf("GetLastRunDate failed: %v", err)
	}
	if date != "" {
		t.Errorf("expected empty date for empty log, got %q", date)
	}

	db.InsertRun("2026-08-19", "a", 5)
	db.InsertRun("2026-08-26", "b", 5)

	date, _ = db.GetLastRunDate()
	if date != "2026-08-26" {
		t.Errorf("expected 2026-08-26, got %q", date)
	}
}

func TestPostsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	runID, _ := db.InsertRun("2026-08-26", "summary", 2)

	p1, err := db.InsertPost(runID, "Feature X", "the brief", ptr("the draft"), "2026-08-26")
	if err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	p2, _ := db.InsertPost(runID, "Bug hunt", "another brief", nil, "2026-08-27")

	db.MarkPostPublished(p1)
	db.MarkPostFailed(p2, "notion API returned 400")

	posts, err := db.GetPostsForRun(runID)
	if err != nil {
		t.Fatalf("GetPostsForRun failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	if !posts[0].Published {
		t.Error("expected first post published")
	}
	if posts[0].Draft == nil || *posts[0].Draft != "the draft" {
		t.Error("expected draft on first post")
	}
	if posts[1].Published {
		t.Error("expected second post unpublished")
	}
	if posts[1].Error == nil || *posts[1].Error != "notion API returned 400" {
		t.Error("expected error text on second post")
	}
	if posts[0].DueDate >= posts[1].DueDate {
		t.Error("expected posts ordered by due date")
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	runID, _ := db.InsertRun("2026-08-26", "summary", 2)
	p1, _ := db.InsertPost(runID, "A", "b", nil, "2026-08-26")
	p2, _ := db.InsertPost(runID, "B", "b", nil, "2026-08-27")
	db.MarkPostPublished(p1)
	db.MarkPostFailed(p2, "boom")

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalRuns != 1 || stats.TotalPosts != 2 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if stats.PublishedPosts != 1 || stats.FailedPosts != 1 {
		t.Errorf("unexpected publish counts: %+v", stats)
	}
	if stats.LastRunDate != "2026-08-26" {
		t.Errorf("expected last run date, got %q", stats.LastRunDate)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	db.InsertRun("2026-08-26", "s", 1)
	db.Close()

	// Reopening must not re-run migrations or lose data.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer db.Close()

	run, _ := db.GetRun("2026-08-26")
	if run == nil {
		t.Error("expected run to survive reopen")
	}
}
