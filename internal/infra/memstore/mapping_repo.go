package memstore

import (
	"context"
	"sync"
	"time"

	"qr-payment-service/internal/domain/ports/repository"
	"qr-payment-service/internal/infra/metrics"
)

var _ repository.MappingRepository = (*MappingRepo)(nil)

type entry struct {
	callbackID string
	expiresAt  time.Time
}

// MappingRepo keeps operation->callback mappings in process memory.
// Entries carry a TTL and the table is capped, so a long-lived process
// does not accumulate stale mappings without bound.
type MappingRepo struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func NewMappingRepo(ttl time.Duration, maxEntries int) *MappingRepo {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MappingRepo{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Record upserts the mapping; the last write wins and refreshes the TTL.
func (s *MappingRepo) Record(_ context.Context, operationID, callbackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[operationID]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOneLocked()
	}
	s.entries[operationID] = entry{
		callbackID: callbackID,
		expiresAt:  s.now().Add(s.ttl),
	}
	metrics.SetMappingEntries(len(s.entries))
	return nil
}

// Lookup returns the live callback id for an operation id. Expired
// entries are treated as absent and removed on the spot.
func (s *MappingRepo) Lookup(_ context.Context, operationID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[operationID]
	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, operationID)
		metrics.SetMappingEntries(len(s.entries))
		return "", false, nil
	}
	return e.callbackID, true, nil
}

// SweepExpired drops every expired entry and reports how many were removed.
func (s *MappingRepo) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.SetMappingEntries(len(s.entries))
	}
	return removed
}

// Len reports the current number of entries, expired or not.
func (s *MappingRepo) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictOneLocked removes the entry closest to expiry to make room.
func (s *MappingRepo) evictOneLocked() {
	var victim string
	var soonest time.Time
	for id, e := range s.entries {
		if victim == "" || e.expiresAt.Before(soonest) {
			victim = id
			soonest = e.expiresAt
		}
	}
	if victim != "" {
		delete(s.entries, victim)
	}
}
