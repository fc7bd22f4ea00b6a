package model

import (
	"strings"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// SourceCitation points from an assistant message back to the document
// passage it was grounded on.
type SourceCitation struct {
	DocumentID string  `json:"documentId"`
	ChunkID    string  `json:"chunkId"`
	PageNumber int     `json:"pageNumber,omitempty"`
	Score      float64 `json:"score"`
	Content    string  `json:"content,omitempty"`
}

// Message is one turn within a chat session. Messages are append-only;
// the server assigns ID and CreatedAt, and CreatedAt defines the total order.
type Message struct {
	ID        string           `json:"id"`
	ChatID    string           `json:"chatId"`
	Role      MessageRole      `json:"role"`
	Content   string           `json:"content"`
	Sources   []SourceCitation `json:"sources,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`

	// Pending marks an optimistic local entry that has not been confirmed
	// by the server yet; Failed marks one whose dispatch failed. Neither is
	// ever set on a server-returned record.
	Pending bool `json:"-"`
	Failed  bool `json:"-"`
}

// ChatSession is a conversation thread over one or more documents.
// MessageCount and LastMessage are server-derived; the client may patch
// them optimistically but must reconcile on the next load.
type ChatSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ProjectID    string    `json:"projectId,omitempty"`
	DocumentIDs  []string  `json:"documentIds"`
	MessageCount int       `json:"messageCount"`
	LastMessage  string    `json:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewChatSession(id, title string, documentIDs []string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:          id,
		Title:       title,
		DocumentIDs: documentIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TouchWith applies the local metadata patch after a message lands in the
// session: bump count, remember the preview, advance UpdatedAt.
func (s *ChatSession) TouchWith(m *Message) {
	s.MessageCount++
	s.LastMessage = m.Content
	if m.CreatedAt.After(s.UpdatedAt) {
		s.UpdatedAt = m.CreatedAt
	} else {
		s.UpdatedAt = time.Now()
	}
}

// MatchesTitle reports whether the session title contains the search term,
// case-insensitively. An empty term matches everything.
func (s *ChatSession) MatchesTitle(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title), strings.ToLower(term))
}
