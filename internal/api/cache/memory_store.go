package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	items *gocache.Cache
	ttl   time.Duration
	now   Clock
}

type MemoryOption func(*MemoryStore)

func WithClock(clock Clock) MemoryOption {
	return func(s *MemoryStore) {
		s.now = clock
	}
}

func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		// no janitor: freshness is checked on read against CreatedAt
		items: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := v.(Entry)
	if !ok {
		s.items.Delete(key)
		return nil, false
	}
	if !entry.Fresh(s.now(), s.ttl) {
		s.items.Delete(key)
		return nil, false
	}
	return &entry, true
}

func (s *MemoryStore) Set(_ context.Context, key string, payload types.ItineraryResponse) error {
	s.items.Set(key, Entry{Payload: payload, CreatedAt: s.now()}, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Flush(context.Context) error {
	s.items.Flush()
	return nil
}

func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

func (s *MemoryStore) Close() error {
	return nil
}
