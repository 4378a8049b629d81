package storage

import (
	"sync"

	"github.com/rs/zerolog"
)

// Safe wraps a Store so that failures never reach the caller. Every value is
// also kept in an in-memory shadow. A key whose write or remove failed is
// degraded: from then on it is read from the shadow only, so a backing store
// that still reads but no longer writes cannot serve a stale value.
type Safe struct {
	backing Store
	shadow  *Memory
	log     zerolog.Logger

	mu       sync.Mutex
	degraded map[string]bool
}

// NewSafe wraps backing. A nil backing behaves as pure memory.
func NewSafe(backing Store, log zerolog.Logger) *Safe {
	return &Safe{backing: backing, shadow: NewMemory(), log: log, degraded: make(map[string]bool)}
}

// Get never fails; a read error or a degraded key falls back to the
// in-memory shadow.
func (s *Safe) Get(key string) (string, bool) {
	if s.backing != nil && !s.isDegraded(key) {
		v, ok, err := s.backing.Get(key)
		if err == nil && ok {
			return v, true
		}
		if err != nil {
			s.log.Debug().Err(err).Str("key", key).Msg("storage read failed, using memory")
		}
	}
	v, ok, _ := s.shadow.Get(key)
	return v, ok
}

// Set writes through to the backing store and always updates the shadow.
func (s *Safe) Set(key, value string) {
	_ = s.shadow.Set(key, value)
	if s.backing == nil {
		return
	}
	if err := s.backing.Set(key, value); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("storage write failed, keeping value in memory")
		s.setDegraded(key, true)
		return
	}
	s.setDegraded(key, false)
}

// Remove deletes from both the backing store and the shadow.
func (s *Safe) Remove(key string) {
	_ = s.shadow.Remove(key)
	if s.backing == nil {
		return
	}
	if err := s.backing.Remove(key); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("storage remove failed")
		s.setDegraded(key, true)
		return
	}
	s.setDegraded(key, false)
}

// Degraded reports whether key is served from memory only.
func (s *Safe) Degraded(key string) bool {
	return s.isDegraded(key)
}

func (s *Safe) isDegraded(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded[key]
}

func (s *Safe) setDegraded(key string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.degraded[key] = true
	} else {
		delete(s.degraded, key)
	}
}
