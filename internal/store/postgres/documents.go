package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/minju-kim98/personal-ai-hub/job"
)

var _ job.DocumentStore = (*Store)(nil)

func (s *Store) CreateDocument(ctx context.Context, d *job.Document) (string, error) {
	id := d.ID
	if id == "" {
		id = s.newID()
	}
	created := d.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	keywords := d.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (id, user_id, category, title, content, keywords, archived, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, d.UserID, string(d.Category), d.Title, d.Content, keywords, d.Archived, created,
	)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

func (s *Store) ListDocuments(ctx context.Context, userID string, filter job.DocumentFilter) ([]job.Document, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)
	if filter.ExcludeArchived {
		where = append(where, "NOT archived")
	}
	if len(filter.Categories) > 0 {
		cats := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			cats[i] = string(c)
		}
		args = append(args, cats)
		where = append(where, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}

	query := `SELECT id, user_id, category, title, content, keywords, archived, created_at
		FROM documents WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []job.Document
	for rows.Next() {
		var (
			d        job.Document
			category string
		)
		if err := rows.Scan(&d.ID, &d.UserID, &category, &d.Title, &d.Content,
			&d.Keywords, &d.Archived, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.Category = job.Category(category)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *Store) ArchiveDocument(ctx context.Context, userID, id string) error {
	var archived string
	err := s.pool.QueryRow(ctx,
		`UPDATE documents SET archived = TRUE WHERE id = $1 AND user_id = $2 RETURNING id`,
		id, userID,
	).Scan(&archived)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("document %s: %w", id, job.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("archive document: %w", err)
	}
	return nil
}
