package repository

import (
	"context"
	"io"

	"docchat/internal/domain/model"
)

// -----------------------------
// Documents
// -----------------------------

type DocumentQuery struct {
	Search    string
	SortBy    string // "name" | "size" | "uploadedAt"
	SortOrder string // "asc" | "desc"
	Limit     int
}

type DocumentRepository interface {
	List(ctx context.Context, q DocumentQuery) ([]*model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	// Upload streams the file body; size must match the number of bytes r yields.
	Upload(ctx context.Context, name, mimeType string, r io.Reader, size int64) (*model.Document, error)
	Delete(ctx context.Context, id string) error
}
