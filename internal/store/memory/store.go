package memory

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is a thread-safe in-memory store for jobs, artifacts, documents and
// news articles.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]json.RawMessage
	artifacts map[string]json.RawMessage // by job id
	documents map[string]json.RawMessage
	articles  map[string]json.RawMessage // by url

	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		jobs:      make(map[string]json.RawMessage),
		artifacts: make(map[string]json.RawMessage),
		documents: make(map[string]json.RawMessage),
		articles:  make(map[string]json.RawMessage),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func encode(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}

func decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
