// Package store holds the single in-process source of truth for the chat
// list and per-chat message timelines. Every surface (sidebar, list command,
// interactive session) reads and mutates through this store so they can
// never diverge after a delete or rename.
package store

import (
	"sort"
	"sync"

	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

type EventKind int

const (
	EventListReplaced EventKind = iota
	EventChatAdded
	EventChatUpdated
	EventChatRemoved
	EventMessagesChanged
	EventSendStateChanged
)

type Event struct {
	Kind   EventKind
	ChatID string
}

type Listener func(Event)

type ChatStore struct {
	mu    sync.Mutex
	items []*model.ChatSession // most-recently-updated first
	total int
	query repository.ListQuery
	gen   uint64

	msgs  map[string][]*model.Message
	sends map[string]SendPhase

	subs    map[int]Listener
	nextSub int
}

func NewChatStore() *ChatStore {
	return &ChatStore{
		msgs:  map[string][]*model.Message{},
		sends: map[string]SendPhase{},
		subs:  map[int]Listener{},
	}
}

// Subscribe registers a listener for store mutations and returns its
// unsubscribe function. Listeners are invoked outside the store lock.
func (s *ChatStore) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify must be called with the lock held; it snapshots the listeners and
// fires them after release so a listener may read the store.
func (s *ChatStore) notify(ev Event) func() {
	fns := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// Snapshot returns a copy of the current list in display order.
func (s *ChatStore) Snapshot() []*model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ChatSession, len(s.items))
	for i, c := range s.items {
		cp := *c
		out[i] = &cp
	}
	return out
}

func (s *ChatStore) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *ChatStore) Query() repository.ListQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// BeginLoad records the query an async page load was dispatched for and
// returns a generation token. A changed search term (or offset zero) makes
// the load a reset; resets invalidate every earlier in-flight load so a
// late result can never clobber a newer list.
func (s *ChatStore) BeginLoad(q repository.ListQuery) (gen uint64, reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset = q.Offset == 0 || q.Search != s.query.Search
	if reset {
		q.Offset = 0
		s.gen++
	}
	s.query = q
	return s.gen, reset
}

// ApplyPage installs a fetched page. Stale results (generation no longer
// current) are dropped and false is returned. Append loads de-duplicate by
// id so an overlapping page never yields a doubled row.
func (s *ChatStore) ApplyPage(gen uint64, page *repository.ChatPage, reset bool) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}
	if reset {
		s.items = s.items[:0]
	}
	seen := make(map[string]bool, len(s.items))
	for _, c := range s.items {
		seen[c.ID] = true
	}
	for _, c := range page.Items {
		if seen[c.ID] {
			continue
		}
		cp := *c
		s.items = append(s.items, &cp)
	}
	s.total = page.Total
	fire := s.notify(Event{Kind: EventListReplaced})
	s.mu.Unlock()
	fire()
	return true
}

// Add inserts a freshly created session and keeps display order.
func (s *ChatStore) Add(c *model.ChatSession) {
	s.mu.Lock()
	cp := *c
	s.items = append(s.items, &cp)
	s.total++
	s.resort()
	fire := s.notify(Event{Kind: EventChatAdded, ChatID: c.ID})
	s.mu.Unlock()
	fire()
}

// Update replaces the whole record for c.ID, not just the changed field:
// the server may have bumped UpdatedAt alongside a rename.
func (s *ChatStore) Update(c *model.ChatSession) bool {
	s.mu.Lock()
	found := false
	for i, cur := range s.items {
		if cur.ID == c.ID {
			cp := *c
			s.items[i] = &cp
			found = true
			break
		}
	}
	if found {
		s.resort()
	}
	fire := s.notify(Event{Kind: EventChatUpdated, ChatID: c.ID})
	s.mu.Unlock()
	if found {
		fire()
	}
	return found
}

// Remove drops id from the list and forgets its timeline and send state.
func (s *ChatStore) Remove(id string) bool {
	s.mu.Lock()
	found := false
	for i, cur := range s.items {
		if cur.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	if found {
		if s.total > 0 {
			s.total--
		}
		delete(s.msgs, id)
		delete(s.sends, id)
	}
	fire := s.notify(Event{Kind: EventChatRemoved, ChatID: id})
	s.mu.Unlock()
	if found {
		fire()
	}
	return found
}

// Get returns a copy of the session, or nil.
func (s *ChatStore) Get(id string) *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.items {
		if cur.ID == id {
			cp := *cur
			return &cp
		}
	}
	return nil
}

func (s *ChatStore) resort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].UpdatedAt.After(s.items[j].UpdatedAt)
	})
}
