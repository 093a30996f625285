package job

import (
	"context"
	"slices"
	"time"
)

// Category classifies a user document.
type Category string

const (
	CategoryResume       Category = "resume"
	CategoryPortfolio    Category = "portfolio"
	CategoryCoverLetter  Category = "cover_letter"
	CategoryWeeklyReport Category = "weekly_report"
	CategoryProposal     Category = "proposal"
	CategoryMisc         Category = "misc"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryResume, CategoryPortfolio, CategoryCoverLetter, CategoryWeeklyReport, CategoryProposal, CategoryMisc:
		return true
	}
	return false
}

// Document is a user-supplied reference text, already converted to markdown.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Keywords  []string  `json:"keywords,omitempty"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentFilter narrows ListDocuments. Zero values do not filter.
type DocumentFilter struct {
	Categories      []Category
	IDs             []string
	ExcludeArchived bool
	Limit           int
}

// Match reports whether d passes every filter except Limit.
func (f DocumentFilter) Match(d Document) bool {
	if f.ExcludeArchived && d.Archived {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, d.Category) {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, d.ID) {
		return false
	}
	return true
}

// DocumentStore is the read side workflows use for reference material,
// plus the writes the API needs.
type DocumentStore interface {
	// ListDocuments returns userID's matching documents, newest first.
	ListDocuments(ctx context.Context, userID string, filter DocumentFilter) ([]Document, error)
	CreateDocument(ctx context.Context, d *Document) (string, error)
	// ArchiveDocument hides a document from default listings. Another
	// user's document is reported as ErrNotFound.
	ArchiveDocument(ctx context.Context, userID, id string) error
}
