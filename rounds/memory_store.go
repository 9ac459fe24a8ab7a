package rounds

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arcade/models"

	lru "github.com/hashicorp/golang-lru"
)

type memoryEntry struct {
	round     models.Round
	expiresAt time.Time // zero means never
}

// MemoryStore keeps open rounds in process memory. The cache is bounded so abandoned
// rounds are evicted oldest first once capacity is reached.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates an in-memory round store holding at most size rounds
func NewMemoryStore(size int, ttl time.Duration) (*MemoryStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create round cache: %w", err)
	}
	return &MemoryStore{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Put stores the round, overwriting any open round for the same user
func (s *MemoryStore) Put(_ context.Context, round *models.Round) error {
	entry := memoryEntry{round: *round}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(round.UserID, entry)
	return nil
}

// Take removes and returns the user's round. Expired rounds are dropped and reported as absent.
func (s *MemoryStore) Take(_ context.Context, userID int64) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.cache.Get(userID)
	if !ok {
		return nil, nil
	}
	s.cache.Remove(userID)

	entry := value.(memoryEntry)
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		return nil, nil
	}

	round := entry.round
	return &round, nil
}

// Len returns the number of rounds currently held
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
