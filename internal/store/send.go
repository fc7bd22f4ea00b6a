package store

import (
	"docchat/internal/domain"
	"docchat/internal/domain/model"
)

// SendPhase is the per-chat dispatch state machine:
// Idle -> Sending -> Reconciled | Failed. Only one send may be in flight
// per chat; a second attempt is rejected, never queued.
type SendPhase int

const (
	SendIdle SendPhase = iota
	Sending
	SendReconciled
	SendFailed
)

func (p SendPhase) String() string {
	switch p {
	case Sending:
		return "sending"
	case SendReconciled:
		return "reconciled"
	case SendFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SendPhaseOf reports the current phase for chatID.
func (s *ChatStore) SendPhaseOf(chatID string) SendPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sends[chatID]
}

// SendInFlight reports whether the send control should be disabled.
func (s *ChatStore) SendInFlight(chatID string) bool {
	return s.SendPhaseOf(chatID) == Sending
}

// BeginSend transitions the chat to Sending and appends the optimistic
// local user entry. Returns domain.ErrSendInFlight while a prior send is
// still outstanding.
func (s *ChatStore) BeginSend(chatID string, optimistic *model.Message) error {
	s.mu.Lock()
	if s.sends[chatID] == Sending {
		s.mu.Unlock()
		return domain.ErrSendInFlight
	}
	s.sends[chatID] = Sending
	cp := *optimistic
	cp.Pending = true
	s.msgs[chatID] = append(s.msgs[chatID], &cp)
	fire := s.notify(Event{Kind: EventSendStateChanged, ChatID: chatID})
	s.mu.Unlock()
	fire()
	return nil
}

// FinishSend reconciles the chat against the authoritative server timeline
// and moves the machine to Reconciled. Optimistic entries are replaced by
// their id-matched server records; earlier failed entries are kept so typed
// content is never dropped silently.
func (s *ChatStore) FinishSend(chatID string, server []*model.Message) {
	s.mu.Lock()
	s.sends[chatID] = SendReconciled
	s.reconcile(chatID, server)
	fire := s.notify(Event{Kind: EventSendStateChanged, ChatID: chatID})
	s.mu.Unlock()
	fire()
}

// FailSend marks the pending optimistic entry as failed and moves the
// machine to Failed. The entry stays in the timeline so the user can see
// and retry what they typed.
func (s *ChatStore) FailSend(chatID string) {
	s.mu.Lock()
	s.sends[chatID] = SendFailed
	for _, m := range s.msgs[chatID] {
		if m.Pending {
			m.Pending = false
			m.Failed = true
		}
	}
	fire := s.notify(Event{Kind: EventSendStateChanged, ChatID: chatID})
	s.mu.Unlock()
	fire()
}

// Messages returns a copy of the chat timeline in stored order.
func (s *ChatStore) Messages(chatID string) []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.msgs[chatID]
	out := make([]*model.Message, len(cur))
	for i, m := range cur {
		cp := *m
		out[i] = &cp
	}
	return out
}

// SetMessages installs a freshly fetched timeline, replacing any optimistic
// state. Server order is authoritative.
func (s *ChatStore) SetMessages(chatID string, server []*model.Message) {
	s.mu.Lock()
	s.reconcile(chatID, server)
	fire := s.notify(Event{Kind: EventMessagesChanged, ChatID: chatID})
	s.mu.Unlock()
	fire()
}

// reconcile must be called with the lock held. The server list wins;
// local-only failed entries are re-appended at the tail.
func (s *ChatStore) reconcile(chatID string, server []*model.Message) {
	byID := make(map[string]bool, len(server))
	next := make([]*model.Message, 0, len(server)+1)
	for _, m := range server {
		cp := *m
		cp.Pending = false
		cp.Failed = false
		next = append(next, &cp)
		byID[m.ID] = true
	}
	for _, m := range s.msgs[chatID] {
		if m.Failed && !byID[m.ID] {
			next = append(next, m)
		}
	}
	s.msgs[chatID] = next
}
