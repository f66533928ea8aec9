package notifier

import (
	"context"
	"sync"
)

// Published is one recorded notification.
type Published struct {
	Message string
	Subject string
}

// StubNotifier records published notifications for tests. It is safe for
// concurrent use because the 80% crossing publishes from a goroutine.
type StubNotifier struct {
	mu        sync.Mutex
	published []Published
	Err       error
}

func NewStubNotifier() *StubNotifier {
	return &StubNotifier{}
}

func (s *StubNotifier) Publish(ctx context.Context, message, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.published = append(s.published, Published{Message: message, Subject: subject})
	return nil
}

func (s *StubNotifier) Published() []Published {
	s.mu.Lock()
	defer s.mu.Unlock()
	published := make([]Published, len(s.published))
	copy(published, s.published)
	return published
}

func (s *StubNotifier) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = nil
}
