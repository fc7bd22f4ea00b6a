package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

// ---- Fakes ----

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeChatRepo struct {
	mu    sync.Mutex
	byID  map[string]*model.ChatSession
	msgs  map[string][]*model.Message
	calls map[string]int
	seq   int

	errSend   error
	errList   error
	errDelete error
	errRename error

	// when set, SendMessage blocks between these two channels so a test
	// can hold a send in flight
	sendStarted chan struct{}
	sendRelease chan struct{}
}

var _ repository.ChatRepository = (*fakeChatRepo)(nil)

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		byID:  map[string]*model.ChatSession{},
		msgs:  map[string][]*model.Message{},
		calls: map[string]int{},
	}
}

func (f *fakeChatRepo) count(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *fakeChatRepo) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeChatRepo) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeChatRepo) seed(s *model.ChatSession, msgs ...*model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.byID[s.ID] = &cp
	for _, m := range msgs {
		mc := *m
		f.msgs[s.ID] = append(f.msgs[s.ID], &mc)
	}
}

func (f *fakeChatRepo) List(ctx context.Context, q repository.ListQuery) (*repository.ChatPage, error) {
	f.count("List")
	if f.errList != nil {
		return nil, f.errList
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.ChatSession, 0, len(f.byID))
	for _, s := range f.byID {
		if s.MatchesTitle(q.Search) {
			cp := *s
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UpdatedAt.After(matched[j].UpdatedAt) })
	total := len(matched)
	if q.Offset < len(matched) {
		matched = matched[q.Offset:]
	} else {
		matched = nil
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return &repository.ChatPage{Items: matched, Total: total}, nil
}

func (f *fakeChatRepo) Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error) {
	f.count("Create")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s := model.NewChatSession(f.nextID(), title, documentIDs)
	f.byID[s.ID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeChatRepo) nextID() string {
	return fmt.Sprintf("chat-%03d", f.seq)
}

func (f *fakeChatRepo) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	f.count("Get")
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeChatRepo) Rename(ctx context.Context, id, title string) (*model.ChatSession, error) {
	f.count("Rename")
	if f.errRename != nil {
		return nil, f.errRename
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.byID[id]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.Title = title
	s.UpdatedAt = testNow
	cp := *s
	return &cp, nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, id string) error {
	f.count("Delete")
	if f.errDelete != nil {
		return f.errDelete
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID[id] == nil {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.msgs, id)
	return nil
}

func (f *fakeChatRepo) Messages(ctx context.Context, chatID string) ([]*model.Message, error) {
	f.count("Messages")
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.msgs[chatID]
	out := make([]*model.Message, 0, len(cur))
	for _, m := range cur {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeChatRepo) SendMessage(ctx context.Context, chatID, content string) (*model.Message, error) {
	f.count("SendMessage")
	if f.sendStarted != nil {
		close(f.sendStarted)
		f.sendStarted = nil
		<-f.sendRelease
	}
	if f.errSend != nil {
		return nil, f.errSend
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.byID[chatID]
	if s == nil {
		return nil, domain.ErrNotFound
	}
	f.seq++
	user := &model.Message{
		ID: "srv-user-" + content, ChatID: chatID,
		Role: model.RoleUser, Content: content, CreatedAt: testNow,
	}
	reply := &model.Message{
		ID: "srv-reply-" + content, ChatID: chatID,
		Role: model.RoleAssistant, Content: "reply to " + content, CreatedAt: testNow.Add(time.Second),
	}
	f.msgs[chatID] = append(f.msgs[chatID], user, reply)
	s.TouchWith(user)
	s.TouchWith(reply)
	cp := *reply
	return &cp, nil
}

type fakeDocRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.Document
	uploads int
	// statuses consumed by successive Get calls, for polling tests
	statusSeq []model.DocumentStatus
}

var _ repository.DocumentRepository = (*fakeDocRepo)(nil)

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{byID: map[string]*model.Document{}}
}

func (f *fakeDocRepo) List(ctx context.Context, q repository.DocumentQuery) ([]*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Document, 0, len(f.byID))
	for _, d := range f.byID {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeDocRepo) Get(ctx context.Context, id string) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.byID[id]
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if len(f.statusSeq) > 0 {
		d.Status = f.statusSeq[0]
		f.statusSeq = f.statusSeq[1:]
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocRepo) Upload(ctx context.Context, name, mimeType string, r io.Reader, size int64) (*model.Document, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	d := &model.Document{
		ID: "doc-up", Name: name, MimeType: mimeType, Size: size,
		Status: model.DocumentProcessing, UploadedAt: testNow,
	}
	f.byID[d.ID] = d
	cp := *d
	return &cp, nil
}

func (f *fakeDocRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byID[id] == nil {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeCredStore struct {
	mu     sync.Mutex
	creds  *model.Credentials
	clears int
}

var _ CredentialStore = (*fakeCredStore)(nil)

func (f *fakeCredStore) SaveCredentials(c *model.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.creds = &cp
	return nil
}

func (f *fakeCredStore) LoadCredentials() (*model.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creds == nil {
		return nil, domain.ErrUnauthorized
	}
	cp := *f.creds
	return &cp, nil
}

func (f *fakeCredStore) ClearCredentials() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = nil
	f.clears++
	return nil
}
