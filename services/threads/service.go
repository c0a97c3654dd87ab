package threads

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"syllabuddy/models"
)

var (
	ErrTitleRequired   = errors.New("thread title is required")
	ErrClassRequired   = errors.New("thread class is required")
	ErrMessageRequired = errors.New("message is required")
	ErrThreadNotFound  = errors.New("thread not found")
)

// Store persists threads and posts.
type Store interface {
	CreateThread(t *models.Thread) error
	AddPost(threadID string, p *models.Post) error
	ListThreadsByUniversity(university string) ([]models.Thread, error)
	GetThread(id string) (*models.Thread, error)
}

// Service manages class discussion threads. Threads are scoped to the
// posting account's university, so students only see their own campus.
type Service struct {
	store Store
}

// NewService creates a threads service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create starts a thread with its first post.
func (s *Service) Create(class, title, university, username, message string) (*models.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	class = strings.TrimSpace(class)
	if class == "" {
		return nil, ErrClassRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	thread := &models.Thread{
		ID:         uuid.NewString(),
		Class:      class,
		Title:      title,
		University: university,
		Posts: []models.Post{{
			ID:       uuid.NewString(),
			Username: username,
			Message:  message,
		}},
	}
	if err := s.store.CreateThread(thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// Reply appends a post to a thread.
func (s *Service) Reply(threadID, username, message string) (*models.Post, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	post := &models.Post{
		ID:       uuid.NewString(),
		Username: username,
		Message:  message,
	}
	if err := s.store.AddPost(threadID, post); err != nil {
		return nil, ErrThreadNotFound
	}
	return post, nil
}

// ListByUniversity returns a campus's threads, newest first.
func (s *Service) ListByUniversity(university string) ([]models.Thread, error) {
	return s.store.ListThreadsByUniversity(university)
}

// Get returns one thread with its posts.
func (s *Service) Get(id string) (*models.Thread, error) {
	thread, err := s.store.GetThread(id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}
