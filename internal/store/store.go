// Package store holds per-user persisted state: premium entitlement,
// daily usage, generation history and preferences. Writes go through a
// Persister synchronously so persisted snapshots observe updates in
// order, but persistence failures are logged and never surfaced.
package store

import (
	"log"
	"sync"
	"time"

	"github.com/carlelieser/avatarmon/internal/models"
)

// Persister is the durable backend behind a Store. Load reports whether
// a snapshot existed for the user.
type Persister interface {
	Load(userID string) (models.UserState, bool, error)
	Save(userID string, state models.UserState) error
}

// Store owns one user's state. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	userID    string
	state     models.UserState
	persister Persister
}

// NewStore creates a store seeded from the persister. A missing or
// unreadable snapshot yields a fresh default state.
func NewStore(userID string, persister Persister) *Store {
	s := &Store{userID: userID, persister: persister}
	if persister != nil {
		state, ok, err := persister.Load(userID)
		if err != nil {
			log.Printf("store: loading state for user %s: %v", userID, err)
		} else if ok {
			s.state = state
		}
	}
	return s
}

// persistLocked writes the current state through; callers hold s.mu.
func (s *Store) persistLocked() {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(s.userID, s.state); err != nil {
		log.Printf("store: saving state for user %s: %v", s.userID, err)
	}
}

// User returns a snapshot of the user's state. The history slice is
// copied so callers cannot alias internal storage.
func (s *Store) User() models.UserState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.Generations = append([]models.GenerationRecord(nil), s.state.Generations...)
	return snapshot
}

// History returns the generation history, newest first.
func (s *Store) History() []models.GenerationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GenerationRecord(nil), s.state.Generations...)
}

// SaveToHistory prepends a record and evicts past the cap, so the list
// stays newest-first and at most MaxHistoryItems long.
func (s *Store) SaveToHistory(record models.GenerationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Generations = append([]models.GenerationRecord{record}, s.state.Generations...)
	if len(s.state.Generations) > models.MaxHistoryItems {
		s.state.Generations = s.state.Generations[:models.MaxHistoryItems]
	}
	s.persistLocked()
}

// DeleteFromHistory removes the record with the given id. Deleting an
// absent id is a no-op.
func (s *Store) DeleteFromHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, record := range s.state.Generations {
		if record.ID == id {
			s.state.Generations = append(s.state.Generations[:i], s.state.Generations[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// ClearHistory removes every history record.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Generations = nil
	s.persistLocked()
}

// MarkExported stamps a history record with its exported-to URI and the
// export time. Unknown ids are ignored.
func (s *Store) MarkExported(id, localURI string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Generations {
		if s.state.Generations[i].ID == id {
			s.state.Generations[i].LocalURI = localURI
			s.state.Generations[i].ExportedAt = &at
			s.persistLocked()
			return
		}
	}
}

// SetPremium flips the entitlement mirror. Granting premium stamps the
// purchase date; revoking clears it.
func (s *Store) SetPremium(premium bool, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasPremium = premium
	if premium {
		s.state.PurchaseDate = &at
	} else {
		s.state.PurchaseDate = nil
	}
	s.persistLocked()
}

// IncrementDailyUsage bumps today's counter and stamps the generation
// time used for calendar-day rollover.
func (s *Store) IncrementDailyUsage(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GenerationsToday++
	s.state.LastGenerationDate = &now
	s.persistLocked()
}

// ResetDailyUsage zeroes the daily counter.
func (s *Store) ResetDailyUsage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GenerationsToday = 0
	s.persistLocked()
}

// SetPreferredStyle records the user's default style choice.
func (s *Store) SetPreferredStyle(style models.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PreferredStyle = style
	s.persistLocked()
}

// SetOnboardingComplete marks the onboarding flow as finished.
func (s *Store) SetOnboardingComplete(done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OnboardingComplete = done
	s.persistLocked()
}

// Manager hands out one Store per user, creating them lazily.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
}

func NewManager(persister Persister) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
	}
}

// ForUser returns the user's store, loading it on first access.
func (m *Manager) ForUser(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[userID]; ok {
		return s
	}
	s := NewStore(userID, m.persister)
	m.stores[userID] = s
	return s
}
