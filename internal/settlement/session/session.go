// Package session holds the computed settlement per period. Results live in
// memory and are replaced wholesale by each successful recalculation; a
// restart simply requires recalculating.
package session

import (
	"sync"

	"github.com/sistemascrenat/liquidaciones-sub000/internal/settlement/domain"
)

type Session struct {
	mu      sync.RWMutex
	results map[string]*domain.Result
}

func New() *Session {
	return &Session{results: make(map[string]*domain.Result)}
}

// Store replaces the period's result.
func (s *Session) Store(period string, result *domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[period] = result
}

// Load returns the period's last computed result.
func (s *Session) Load(period string) (*domain.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[period]
	return result, ok
}

// Periods lists the periods with a computed result.
func (s *Session) Periods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periods := make([]string, 0, len(s.results))
	for period := range s.results {
		periods = append(periods, period)
	}
	return periods
}

// SetPaid flips the payout flag on one aggregate of the stored result and
// returns a copy of the updated aggregate.
func (s *Session) SetPaid(period, key string, paid bool) (*domain.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[period]
	if !ok {
		return nil, domain.ErrNoResult
	}
	for i := range result.Aggregates {
		if result.Aggregates[i].Key == key {
			result.Aggregates[i].Paid = paid
			updated := result.Aggregates[i]
			return &updated, nil
		}
	}
	return nil, domain.ErrAggregateNotFound
}
