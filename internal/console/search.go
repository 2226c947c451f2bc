package console

import (
	"context"
	"sync"
)

// SearchScreen is the filter-then-query view used for system logs and
// viewing records. Criteria edits stay local until Search is invoked.
type SearchScreen[T any] struct {
	mu       sync.Mutex
	title    string
	query    func(ctx context.Context, filters map[string]string) ([]T, error)
	notifier *Notifier

	filters map[string]string
	items   []T
	state   State
	lastErr error
}

func NewSearchScreen[T any](title string, notifier *Notifier, query func(ctx context.Context, filters map[string]string) ([]T, error)) *SearchScreen[T] {
	return &SearchScreen[T]{
		title:    title,
		query:    query,
		notifier: notifier,
		filters:  map[string]string{},
		state:    StateReady,
	}
}

func (s *SearchScreen[T]) Title() string { return s.title }

func (s *SearchScreen[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SearchScreen[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// SetFilter edits the local criteria without touching the server. Empty
// values drop the key.
func (s *SearchScreen[T]) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.filters, key)
		return
	}
	s.filters[key] = value
}

func (s *SearchScreen[T]) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = map[string]string{}
}

func (s *SearchScreen[T]) Filters() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.filters))
	for key, value := range s.filters {
		out[key] = value
	}
	return out
}

// Search runs the query with the current criteria.
func (s *SearchScreen[T]) Search(ctx context.Context) error {
	s.mu.Lock()
	filters := make(map[string]string, len(s.filters))
	for key, value := range s.filters {
		filters[key] = value
	}
	s.state = StateLoading
	s.mu.Unlock()

	items, err := s.query(ctx, filters)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		s.notifier.Error(err.Error())
		return err
	}
	s.items = items
	s.state = StateReady
	s.lastErr = nil
	return nil
}
