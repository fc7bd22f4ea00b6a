// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
	"docchat/internal/infra/metrics"
	"docchat/internal/store"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// Create starts a session over the given documents (at least one).
	Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error)
	// Open loads the chat and its timeline into the store.
	Open(ctx context.Context, chatID string) (*model.ChatSession, error)
	// SendMessage dispatches one user turn and reconciles the timeline.
	SendMessage(ctx context.Context, chatID, content string) error
}

type chatUC struct {
	chats repository.ChatRepository
	store *store.ChatStore
	log   *zerolog.Logger
	now   func() time.Time
}

func NewChatUseCase(chats repository.ChatRepository, st *store.ChatStore, log *zerolog.Logger) *chatUC {
	return &chatUC{chats: chats, store: st, log: log, now: time.Now}
}

func (c *chatUC) Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error) {
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("%w: a chat needs at least one document", domain.ErrInvalidArgument)
	}
	s, err := c.chats.Create(ctx, documentIDs, strings.TrimSpace(title))
	if err != nil {
		return nil, err
	}
	c.store.Add(s)
	return s, nil
}

func (c *chatUC) Open(ctx context.Context, chatID string) (*model.ChatSession, error) {
	s, err := c.chats.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	msgs, err := c.chats.Messages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !c.store.Update(s) {
		c.store.Add(s)
	}
	c.store.SetMessages(chatID, msgs)
	return s, nil
}

// SendMessage runs the Idle -> Sending -> Reconciled|Failed machine for one
// chat. Empty content never reaches the network; a second send while one is
// outstanding is rejected; the sending state is always cleared, even on
// failure, and failed content stays visible in the timeline.
func (c *chatUC) SendMessage(ctx context.Context, chatID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ErrEmptyMessage
	}

	optimistic := &model.Message{
		ID:        "local-" + ulid.Make().String(),
		ChatID:    chatID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: c.now(),
	}
	if err := c.store.BeginSend(chatID, optimistic); err != nil {
		metrics.IncSend("rejected")
		return err
	}

	reconciled := false
	defer func() {
		if !reconciled {
			c.store.FailSend(chatID)
		}
	}()

	start := c.now()
	if _, err := c.chats.SendMessage(ctx, chatID, content); err != nil {
		metrics.IncSend("failed")
		c.log.Warn().Err(err).Str("chat_id", chatID).Msg("send failed")
		return fmt.Errorf("send message: %w", err)
	}

	// Refetch the authoritative timeline and swap the optimistic entry for
	// its server record.
	server, err := c.chats.Messages(ctx, chatID)
	if err != nil {
		metrics.IncSend("failed")
		return fmt.Errorf("refresh after send: %w", err)
	}
	c.store.FinishSend(chatID, server)
	reconciled = true
	metrics.IncSend("ok")
	metrics.ObserveSendLatency(c.now().Sub(start))

	// MessageCount/LastMessage are server-derived; pick up the fresh record.
	if s, err := c.chats.Get(ctx, chatID); err == nil {
		c.store.Update(s)
	}
	return nil
}
