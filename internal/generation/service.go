package generation

import (
	"log"
	"sync"

	"github.com/carlelieser/avatarmon/internal/quota"
	"github.com/carlelieser/avatarmon/internal/store"
)

// EventSink publishes user-scoped lifecycle events; nil disables
// publishing.
type EventSink interface {
	PublishUserEvent(userID, event string, payload map[string]interface{}) error
}

// Service hands out one Runner per user, created lazily with a quota
// gate over the user's store and a notifier bound to the user's event
// channel.
type Service struct {
	mu      sync.Mutex
	runners map[string]*Runner
	client  JobClient
	stores  *store.Manager
	events  EventSink
	opts    []Option
}

func NewService(client JobClient, stores *store.Manager, events EventSink, opts ...Option) *Service {
	return &Service{
		runners: make(map[string]*Runner),
		client:  client,
		stores:  stores,
		events:  events,
		opts:    opts,
	}
}

// ForUser returns the user's runner, creating it on first access.
func (s *Service) ForUser(userID string) *Runner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runners[userID]; ok {
		return r
	}
	gate := quota.NewGate(s.stores.ForUser(userID))
	opts := s.opts
	if s.events != nil {
		notify := func(event string, payload map[string]interface{}) {
			if err := s.events.PublishUserEvent(userID, event, payload); err != nil {
				log.Printf("generation: publishing %s for %s: %v", event, userID, err)
			}
		}
		opts = append(append([]Option{}, s.opts...), WithNotifier(notify))
	}
	r := NewRunner(s.client, gate, opts...)
	s.runners[userID] = r
	return r
}

// GateFor returns a quota gate over the user's store, for read-only
// quota queries outside the runner.
func (s *Service) GateFor(userID string) *quota.Gate {
	return quota.NewGate(s.stores.ForUser(userID))
}
