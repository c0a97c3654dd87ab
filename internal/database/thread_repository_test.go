package database

import (
	"path/filepath"
	"testing"
	"time"

	"syllabuddy/models"
)

// setupTestThreadRepo creates a test database and thread repository.
func setupTestThreadRepo(t *testing.T) *ThreadRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewThreadRepository(db.Connection())
}

func testThread(id, university string) *models.Thread {
	return &models.Thread{
		ID:         id,
		Class:      "CS 371L",
		Title:      "Project 1 questions",
		University: university,
		Posts: []models.Post{{
			ID:       id + "-p1",
			Username: "kim",
			Message:  "Anyone started yet?",
		}},
	}
}

func TestCreateThread_RoundTrip(t *testing.T) {
	repo := setupTestThreadRepo(t)

	if err := repo.CreateThread(testThread("t1", "UT Austin")); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	got, err := repo.GetThread("t1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected thread, got nil")
	}
	if got.Title != "Project 1 questions" || got.University != "UT Austin" {
		t.Fatalf("unexpected thread: %+v", got)
	}
	if len(got.Posts) != 1 || got.Posts[0].Message != "Anyone started yet?" {
		t.Fatalf("expected initial post, got %+v", got.Posts)
	}
	if got.CreatedAt.IsZero() || got.Posts[0].CreatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestGetThread_Missing(t *testing.T) {
	repo := setupTestThreadRepo(t)

	got, err := repo.GetThread("ghost")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing thread, got %+v", got)
	}
}

func TestAddPost_AppendsInOrder(t *testing.T) {
	repo := setupTestThreadRepo(t)

	if err := repo.CreateThread(testThread("t1", "UT Austin")); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	reply := &models.Post{
		ID:        "t1-p2",
		Username:  "alex",
		Message:   "Started last night.",
		CreatedAt: time.Now().UTC().Add(time.Second),
	}
	if err := repo.AddPost("t1", reply); err != nil {
		t.Fatalf("AddPost failed: %v", err)
	}

	got, err := repo.GetThread("t1")
	if err != nil {
		t.Fatalf("GetThread failed: %v", err)
	}
	if len(got.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(got.Posts))
	}
	if got.Posts[0].Username != "kim" || got.Posts[1].Username != "alex" {
		t.Fatalf("expected chronological posts, got %+v", got.Posts)
	}
}

func TestAddPost_MissingThread(t *testing.T) {
	repo := setupTestThreadRepo(t)

	err := repo.AddPost("ghost", &models.Post{ID: "p1", Username: "kim", Message: "hi"})
	if err == nil {
		t.Fatalf("expected error for missing thread")
	}
}

func TestListThreadsByUniversity_NewestFirst(t *testing.T) {
	repo := setupTestThreadRepo(t)

	first := testThread("t1", "UT Austin")
	if err := repo.CreateThread(first); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	second := testThread("t2", "UT Austin")
	if err := repo.CreateThread(second); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	// Force a strictly later creation time on the second thread.
	if _, err := repo.conn.Exec(
		`UPDATE threads SET created_at = ? WHERE id = ?`,
		first.CreatedAt.Add(time.Minute), "t2",
	); err != nil {
		t.Fatalf("failed to adjust timestamp: %v", err)
	}
	other := testThread("t3", "Georgia Tech")
	if err := repo.CreateThread(other); err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}

	list, err := repo.ListThreadsByUniversity("UT Austin")
	if err != nil {
		t.Fatalf("ListThreadsByUniversity failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(list))
	}
	if list[0].ID != "t2" || list[1].ID != "t1" {
		t.Fatalf("expected newest first, got %s then %s", list[0].ID, list[1].ID)
	}
}
