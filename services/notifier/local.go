package notifier

import (
	"log"
	"sync"

	"syllabuddy/models"
)

// LocalNotificationService is an in-process stand-in for the device
// notification center: scheduled requests sit in a pending queue until a
// client acknowledges delivery.
type LocalNotificationService struct {
	mu      sync.Mutex
	pending []models.NotificationRequest
}

// NewLocalNotificationService creates an empty queue.
func NewLocalNotificationService() *LocalNotificationService {
	return &LocalNotificationService{}
}

// Schedule enqueues a request. Identifiers already pending are left alone.
func (l *LocalNotificationService) Schedule(req models.NotificationRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range l.pending {
		if p.Identifier == req.Identifier {
			return nil
		}
	}
	l.pending = append(l.pending, req)
	log.Printf("[notifier] scheduled %s", req.Identifier)
	return nil
}

// PendingIdentifiers lists identifiers currently queued.
func (l *LocalNotificationService) PendingIdentifiers() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.pending))
	for _, p := range l.pending {
		ids = append(ids, p.Identifier)
	}
	return ids, nil
}

// Drain removes and returns everything pending. Clients call this to
// fetch the notifications they should present.
func (l *LocalNotificationService) Drain() []models.NotificationRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	drained := l.pending
	l.pending = nil
	return drained
}
