package database

import (
	"database/sql"
	"fmt"
	"time"

	"syllabuddy/models"
)

// ThreadRepository persists discussion threads and their posts.
type ThreadRepository struct {
	conn *sql.DB
}

// NewThreadRepository creates a ThreadRepository.
func NewThreadRepository(conn *sql.DB) *ThreadRepository {
	return &ThreadRepository{conn: conn}
}

// CreateThread inserts a thread and its initial posts.
func (r *ThreadRepository) CreateThread(t *models.Thread) error {
	t.CreatedAt = time.Now().UTC()
	return withBusyRetry("create thread", func() error {
		tx, err := r.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(
			`INSERT INTO threads (id, class, title, university, created_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.Class, t.Title, t.University, t.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert thread: %w", err)
		}
		for i := range t.Posts {
			if err := insertPost(tx, t.ID, &t.Posts[i]); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// AddPost appends a post to an existing thread.
func (r *ThreadRepository) AddPost(threadID string, p *models.Post) error {
	return withBusyRetry("add post", func() error {
		var one int
		if err := r.conn.QueryRow(`SELECT 1 FROM threads WHERE id = ?`, threadID).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return sql.ErrNoRows
			}
			return fmt.Errorf("lookup thread: %w", err)
		}
		return insertPost(r.conn, threadID, p)
	})
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertPost(db execer, threadID string, p *models.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(
		`INSERT INTO posts (id, thread_id, username, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, threadID, p.Username, p.Message, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// ListThreadsByUniversity returns threads for one university, newest first,
// with posts in chronological order.
func (r *ThreadRepository) ListThreadsByUniversity(university string) ([]models.Thread, error) {
	rows, err := r.conn.Query(
		`SELECT id, class, title, university, created_at FROM threads
		 WHERE university = ? ORDER BY created_at DESC`, university)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(&t.ID, &t.Class, &t.Title, &t.University, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range threads {
		posts, err := r.listPosts(threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].Posts = posts
	}
	return threads, nil
}

// GetThread returns one thread with its posts, or nil when absent.
func (r *ThreadRepository) GetThread(id string) (*models.Thread, error) {
	var t models.Thread
	err := r.conn.QueryRow(
		`SELECT id, class, title, university, created_at FROM threads WHERE id = ?`, id,
	).Scan(&t.ID, &t.Class, &t.Title, &t.University, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get thread: %w", err)
	}
	posts, err := r.listPosts(t.ID)
	if err != nil {
		return nil, err
	}
	t.Posts = posts
	return &t, nil
}

func (r *ThreadRepository) listPosts(threadID string) ([]models.Post, error) {
	rows, err := r.conn.Query(
		`SELECT id, username, message, created_at FROM posts
		 WHERE thread_id = ? ORDER BY created_at`, threadID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Username, &p.Message, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
