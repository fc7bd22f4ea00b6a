// File: internal/usecase/document_uc.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

var _ DocumentUseCase = (*documentUC)(nil)

type DocumentUseCase interface {
	List(ctx context.Context, q repository.DocumentQuery) ([]*model.Document, error)
	// Upload validates name and size before any bytes leave the client.
	Upload(ctx context.Context, name string, r io.Reader, size int64) (*model.Document, error)
	Delete(ctx context.Context, id string) error
	// WaitProcessed polls until the backend finishes indexing the document.
	WaitProcessed(ctx context.Context, id string, interval time.Duration) (*model.Document, error)
}

type documentUC struct {
	docs repository.DocumentRepository
	log  *zerolog.Logger
}

func NewDocumentUseCase(docs repository.DocumentRepository, log *zerolog.Logger) *documentUC {
	return &documentUC{docs: docs, log: log}
}

func (d *documentUC) List(ctx context.Context, q repository.DocumentQuery) ([]*model.Document, error) {
	return d.docs.List(ctx, q)
}

func (d *documentUC) Upload(ctx context.Context, name string, r io.Reader, size int64) (*model.Document, error) {
	mime, err := model.ValidateUpload(name, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	doc, err := d.docs.Upload(ctx, name, mime, r, size)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	d.log.Info().Str("document_id", doc.ID).Str("name", name).Int64("size", size).Msg("uploaded")
	return doc, nil
}

func (d *documentUC) Delete(ctx context.Context, id string) error {
	if err := d.docs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (d *documentUC) WaitProcessed(ctx context.Context, id string, interval time.Duration) (*model.Document, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		doc, err := d.docs.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		switch {
		case doc.Status.Ready():
			return doc, nil
		case doc.Status == model.DocumentFailed:
			return doc, fmt.Errorf("document %s failed processing", id)
		}
		select {
		case <-ctx.Done():
			return doc, ctx.Err()
		case <-ticker.C:
		}
	}
}
