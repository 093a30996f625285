package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/minju-kim98/personal-ai-hub/job"
)

var _ job.DocumentStore = (*Store)(nil)

func (s *Store) CreateDocument(_ context.Context, d *job.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *d
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	raw, err := encode(rec)
	if err != nil {
		return "", err
	}
	s.documents[rec.ID] = raw
	return rec.ID, nil
}

// ListDocuments returns userID's documents matching filter, newest first.
func (s *Store) ListDocuments(_ context.Context, userID string, filter job.DocumentFilter) ([]job.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []job.Document
	for _, raw := range s.documents {
		d, err := decode[job.Document](raw)
		if err != nil {
			return nil, err
		}
		if d.UserID != userID || !filter.Match(*d) {
			continue
		}
		docs = append(docs, *d)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if filter.Limit > 0 && len(docs) > filter.Limit {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

func (s *Store) ArchiveDocument(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.documents[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, job.ErrNotFound)
	}
	d, err := decode[job.Document](raw)
	if err != nil {
		return err
	}
	if d.UserID != userID {
		return fmt.Errorf("document %s: %w", id, job.ErrNotFound)
	}
	d.Archived = true
	raw, err = encode(d)
	if err != nil {
		return err
	}
	s.documents[id] = raw
	return nil
}
