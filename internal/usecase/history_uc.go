// File: internal/usecase/history_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
	"docchat/internal/store"
	"docchat/internal/timefmt"
)

var _ HistoryUseCase = (*historyUC)(nil)

type HistoryUseCase interface {
	// Load resets the list for a (possibly new) search term.
	Load(ctx context.Context, limit int, search string) error
	// LoadMore appends the next page for the current query.
	LoadMore(ctx context.Context) error
	// Partition splits the current list into recent (within 7 days,
	// boundary inclusive) and older, keeping display order in each group.
	Partition(now time.Time) (recent, older []*model.ChatSession)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) (*model.ChatSession, error)
}

type historyUC struct {
	chats repository.ChatRepository
	store *store.ChatStore
	log   *zerolog.Logger
}

func NewHistoryUseCase(chats repository.ChatRepository, st *store.ChatStore, log *zerolog.Logger) *historyUC {
	return &historyUC{chats: chats, store: st, log: log}
}

func (h *historyUC) Load(ctx context.Context, limit int, search string) error {
	q := repository.ListQuery{Limit: limit, Search: strings.TrimSpace(search)}
	return h.load(ctx, q)
}

func (h *historyUC) LoadMore(ctx context.Context) error {
	q := h.store.Query()
	have := len(h.store.Snapshot())
	if have >= h.store.Total() {
		return nil
	}
	q.Offset = have
	return h.load(ctx, q)
}

func (h *historyUC) load(ctx context.Context, q repository.ListQuery) error {
	gen, reset := h.store.BeginLoad(q)
	page, err := h.chats.List(ctx, q)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	if !h.store.ApplyPage(gen, page, reset) {
		h.log.Debug().Str("search", q.Search).Msg("dropped stale chat page")
	}
	return nil
}

func (h *historyUC) Partition(now time.Time) (recent, older []*model.ChatSession) {
	for _, c := range h.store.Snapshot() {
		if timefmt.IsRecent(c.UpdatedAt, now) {
			recent = append(recent, c)
		} else {
			older = append(older, c)
		}
	}
	return recent, older
}

// Delete removes the chat server-side first; the store (and with it every
// subscribed view) is only patched after success, so a failed delete leaves
// the list untouched.
func (h *historyUC) Delete(ctx context.Context, id string) error {
	if err := h.chats.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	h.store.Remove(id)
	return nil
}

// Rename trims the title. Empty is invalid; unchanged is a no-op success
// with zero network calls; success replaces the whole record in the store
// since the server bumps UpdatedAt too.
func (h *historyUC) Rename(ctx context.Context, id, title string) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is empty", domain.ErrInvalidArgument)
	}
	if cur := h.store.Get(id); cur != nil && cur.Title == title {
		return cur, nil
	}
	updated, err := h.chats.Rename(ctx, id, title)
	if err != nil {
		return nil, fmt.Errorf("rename chat: %w", err)
	}
	if !h.store.Update(updated) {
		h.store.Add(updated)
	}
	return updated, nil
}
