package database

import (
	"path/filepath"
	"testing"

	"syllabuddy/models"
)

// setupTestAccountRepo creates a test database and account repository.
func setupTestAccountRepo(t *testing.T) (*DB, *AccountRepository) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewAccountRepository(db.Connection())
	return db, repo
}

func testAccount(email string) *models.Account {
	return &models.Account{
		ID:         "acct-" + email,
		Email:      email,
		Username:   "student",
		University: "UT Austin",
	}
}

func TestCreateAccount_Success(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	a := testAccount("s@example.com")
	if err := repo.CreateAccount(a); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected non-zero CreatedAt")
	}

	retrieved, err := repo.GetAccountByEmail("s@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected account to be retrievable")
	}
	if retrieved.Username != "student" {
		t.Errorf("expected username 'student', got %q", retrieved.Username)
	}
	if len(retrieved.Events) != 0 || len(retrieved.Classes) != 0 {
		t.Errorf("expected empty events/classes, got %v / %v", retrieved.Events, retrieved.Classes)
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	if err := repo.CreateAccount(testAccount("dup@example.com")); err != nil {
		t.Fatalf("first CreateAccount failed: %v", err)
	}
	other := testAccount("dup@example.com")
	other.ID = "acct-other"
	if err := repo.CreateAccount(other); err == nil {
		t.Fatal("expected unique constraint error for duplicate email")
	}
}

func TestGetAccountByEmail_NotFound(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	retrieved, err := repo.GetAccountByEmail("missing@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if retrieved != nil {
		t.Error("expected nil for non-existent account")
	}
}

func TestUpdateEvents_RoundTrip(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	a := testAccount("events@example.com")
	if err := repo.CreateAccount(a); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	events := []models.Event{
		{Date: "06-18-2025", Title: "Quiz 1", Class: "CS101"},
		{Date: "07-02-2025", Title: "Midterm", Class: "CS 371L"},
	}
	if err := repo.UpdateEvents(a.ID, events); err != nil {
		t.Fatalf("UpdateEvents failed: %v", err)
	}

	retrieved, _ := repo.GetAccountByID(a.ID)
	if len(retrieved.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(retrieved.Events))
	}
	if !retrieved.Events[1].Equal(events[1]) {
		t.Errorf("event mismatch: %+v", retrieved.Events[1])
	}
}

func TestUpdateEvents_NoMatchingAccount(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	err := repo.UpdateEvents("missing", []models.Event{{Date: "06-18-2025", Title: "Quiz 1", Class: "CS101"}})
	if err == nil {
		t.Fatal("expected error updating events for missing account")
	}
}

func TestUpdateClasses_RoundTrip(t *testing.T) {
	_, repo := setupTestAccountRepo(t)

	a := testAccount("classes@example.com")
	repo.CreateAccount(a)

	if err := repo.UpdateClasses(a.ID, []string{"CS101", "CS 371L"}); err != nil {
		t.Fatalf("UpdateClasses failed: %v", err)
	}
	retrieved, _ := repo.GetAccountByID(a.ID)
	if len(retrieved.Classes) != 2 || retrieved.Classes[1] != "CS 371L" {
		t.Errorf("unexpected classes: %v", retrieved.Classes)
	}
}
