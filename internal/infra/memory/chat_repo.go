// Package memory holds the in-memory fixture implementations of the data
// access ports. They back mock mode (offline development) and the stub
// backend server, and simulate backend latency where it matters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.ChatRepository = (*ChatRepo)(nil)

type ChatRepo struct {
	mu   sync.Mutex
	byID map[string]*model.ChatSession
	msgs map[string][]*model.Message

	// replyDelay simulates the backend thinking before the assistant reply.
	replyDelay time.Duration
	now        func() time.Time
}

func NewChatRepo(replyDelay time.Duration) *ChatRepo {
	return &ChatRepo{
		byID:       map[string]*model.ChatSession{},
		msgs:       map[string][]*model.Message{},
		replyDelay: replyDelay,
		now:        time.Now,
	}
}

func (r *ChatRepo) List(ctx context.Context, q repository.ListQuery) (*repository.ChatPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*model.ChatSession, 0, len(r.byID))
	for _, s := range r.byID {
		if s.MatchesTitle(q.Search) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)
	start := q.Offset
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	items := make([]*model.ChatSession, 0, end-start)
	for _, s := range matched[start:end] {
		cp := *s
		items = append(items, &cp)
	}
	return &repository.ChatPage{Items: items, Total: total}, nil
}

func (r *ChatRepo) Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error) {
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("%w: a chat needs at least one document", domain.ErrInvalidArgument)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New chat"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s := model.NewChatSession(newID(), title, documentIDs)
	now := r.now()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.byID[s.ID] = s
	cp := *s
	return &cp, nil
}

func (r *ChatRepo) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *ChatRepo) Rename(ctx context.Context, id, title string) (*model.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is empty", domain.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Title = title
	s.UpdatedAt = r.now()
	cp := *s
	return &cp, nil
}

// Delete cascades the chat's messages, matching the real backend.
func (r *ChatRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[id] == nil {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.msgs, id)
	return nil
}

func (r *ChatRepo) Messages(ctx context.Context, chatID string) ([]*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[chatID] == nil {
		return nil, domain.ErrNotFound
	}
	cur := r.msgs[chatID]
	out := make([]*model.Message, 0, len(cur))
	for _, m := range cur {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ChatRepo) SendMessage(ctx context.Context, chatID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}

	r.mu.Lock()
	s := r.byID[chatID]
	if s == nil {
		r.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	user := &model.Message{
		ID:        newID(),
		ChatID:    chatID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: r.now(),
	}
	r.msgs[chatID] = append(r.msgs[chatID], user)
	s.TouchWith(user)
	docIDs := append([]string(nil), s.DocumentIDs...)
	r.mu.Unlock()

	if r.replyDelay > 0 {
		select {
		case <-time.After(r.replyDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[chatID] == nil {
		// deleted while the reply was being produced
		return nil, domain.ErrNotFound
	}
	reply := &model.Message{
		ID:        newID(),
		ChatID:    chatID,
		Role:      model.RoleAssistant,
		Content:   cannedReply(content),
		CreatedAt: r.now(),
	}
	if len(docIDs) > 0 {
		reply.Sources = []model.SourceCitation{{
			DocumentID: docIDs[0],
			ChunkID:    newID(),
			PageNumber: 1,
			Score:      0.92,
			Content:    "…relevant passage…",
		}}
	}
	r.msgs[chatID] = append(r.msgs[chatID], reply)
	s.TouchWith(reply)
	cp := *reply
	return &cp, nil
}

// Seed installs a fixture session directly, bypassing Create's validation.
// Test and stub setup only.
func (r *ChatRepo) Seed(s *model.ChatSession, msgs []*model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[s.ID] = &cp
	for _, m := range msgs {
		mc := *m
		r.msgs[s.ID] = append(r.msgs[s.ID], &mc)
	}
}

func cannedReply(question string) string {
	return fmt.Sprintf("Based on your documents, here is what I found about %q.", truncate(question, 60))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// newID returns a ULID so message ids sort in creation order.
func newID() string {
	return ulid.Make().String()
}
