package memory

import (
	"context"
	"time"

	"docchat/internal/domain/model"
)

// Fixtures is the full offline data set: documents, a couple of chats with
// history, and a ready-made dev account.
type Fixtures struct {
	Chats *ChatRepo
	Docs  *DocumentRepo
	Auth  *AuthGateway
}

const (
	DevEmail    = "dev@example.com"
	DevPassword = "password123"
)

// NewFixtures builds seeded fixture repos. replyDelay simulates assistant
// latency on sends; pass 0 in tests.
func NewFixtures(replyDelay time.Duration) *Fixtures {
	f := &Fixtures{
		Chats: NewChatRepo(replyDelay),
		Docs:  NewDocumentRepo(),
		Auth:  NewAuthGateway(24 * time.Hour),
	}
	f.seed()
	return f
}

func (f *Fixtures) seed() {
	now := time.Now()

	_, _ = f.Auth.Register(context.Background(), DevEmail, DevPassword, "Dev User")

	docA := &model.Document{
		ID:         "doc-handbook",
		Name:       "employee-handbook.pdf",
		MimeType:   "application/pdf",
		Size:       482_133,
		Status:     model.DocumentCompleted,
		PageCount:  42,
		UploadedAt: now.Add(-21 * 24 * time.Hour),
	}
	docB := &model.Document{
		ID:         "doc-roadmap",
		Name:       "q3-roadmap.md",
		MimeType:   "text/markdown",
		Size:       18_240,
		Status:     model.DocumentCompleted,
		PageCount:  6,
		UploadedAt: now.Add(-3 * 24 * time.Hour),
	}
	docC := &model.Document{
		ID:         "doc-contract",
		Name:       "vendor-contract.docx",
		MimeType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Size:       96_810,
		Status:     model.DocumentProcessing,
		UploadedAt: now.Add(-10 * time.Minute),
	}
	f.Docs.Seed(docA)
	f.Docs.Seed(docB)
	f.Docs.Seed(docC)

	recent := &model.ChatSession{
		ID:           "chat-roadmap",
		Title:        "Q3 roadmap questions",
		DocumentIDs:  []string{docB.ID},
		MessageCount: 2,
		LastMessage:  "The launch is planned for late September.",
		CreatedAt:    now.Add(-2 * 24 * time.Hour),
		UpdatedAt:    now.Add(-2 * time.Hour),
	}
	f.Chats.Seed(recent, []*model.Message{
		{
			ID:        "msg-r1",
			ChatID:    recent.ID,
			Role:      model.RoleUser,
			Content:   "When do we launch?",
			CreatedAt: now.Add(-2*time.Hour - time.Minute),
		},
		{
			ID:      "msg-r2",
			ChatID:  recent.ID,
			Role:    model.RoleAssistant,
			Content: "The launch is planned for late September.",
			Sources: []model.SourceCitation{{
				DocumentID: docB.ID,
				ChunkID:    "chunk-17",
				PageNumber: 3,
				Score:      0.95,
				Content:    "Target launch window: Sep 22–30.",
			}},
			CreatedAt: now.Add(-2 * time.Hour),
		},
	})

	older := &model.ChatSession{
		ID:           "chat-handbook",
		Title:        "PTO policy",
		DocumentIDs:  []string{docA.ID},
		MessageCount: 2,
		LastMessage:  "You accrue 1.5 days per month.",
		CreatedAt:    now.Add(-30 * 24 * time.Hour),
		UpdatedAt:    now.Add(-12 * 24 * time.Hour),
	}
	f.Chats.Seed(older, []*model.Message{
		{
			ID:        "msg-h1",
			ChatID:    older.ID,
			Role:      model.RoleUser,
			Content:   "How much PTO do I get?",
			CreatedAt: now.Add(-12*24*time.Hour - time.Minute),
		},
		{
			ID:        "msg-h2",
			ChatID:    older.ID,
			Role:      model.RoleAssistant,
			Content:   "You accrue 1.5 days per month.",
			CreatedAt: now.Add(-12 * 24 * time.Hour),
		},
	})
}
