package repository

import (
	"context"

	"docchat/internal/domain/model"
)

// -----------------------------
// Chat Sessions
// -----------------------------

// ListQuery is offset/limit pagination with an optional title search term.
type ListQuery struct {
	Limit  int
	Offset int
	Search string
}

// ChatPage is one page of sessions plus the total match count, so callers
// can decide whether a further load-more is possible.
type ChatPage struct {
	Items []*model.ChatSession
	Total int
}

// ChatRepository is the data-access strategy for chat sessions. Calling code
// depends only on this interface; the HTTP-backed and in-memory fixture
// implementations are interchangeable.
type ChatRepository interface {
	List(ctx context.Context, q ListQuery) (*ChatPage, error)
	// Create requires at least one document id.
	Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error)
	Get(ctx context.Context, id string) (*model.ChatSession, error)
	// Rename returns the full server record, not just the title, since the
	// server also bumps UpdatedAt.
	Rename(ctx context.Context, id, title string) (*model.ChatSession, error)
	Delete(ctx context.Context, id string) error
	Messages(ctx context.Context, chatID string) ([]*model.Message, error)
	// SendMessage dispatches a user turn and returns the assistant reply
	// once the backend has produced it.
	SendMessage(ctx context.Context, chatID, content string) (*model.Message, error)
}
