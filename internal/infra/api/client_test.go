package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"docchat/internal/domain"
	"docchat/internal/domain/ports/repository"
	"docchat/internal/infra/api"
	"docchat/internal/infra/memory"
	"docchat/internal/infra/stub"
)

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// harness spins up the stub backend and a logged-in client against it.
type harness struct {
	srv   *httptest.Server
	chats *api.ChatRepo
	docs  *api.DocumentRepo
	auth  *api.AuthGateway

	unauthorized int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fx := memory.NewFixtures(0)
	srv := httptest.NewServer(stub.New(fx, "test-secret", time.Hour, newLogger()).Router())
	t.Cleanup(srv.Close)

	h := &harness{srv: srv}
	token := ""
	client, err := api.NewClient(srv.URL, 5*time.Second,
		func() string { return token },
		func() { h.unauthorized++ },
		newLogger(),
	)
	if err != nil {
		t.Fatal(err)
	}
	h.auth = api.NewAuthGateway(client)
	h.chats = api.NewChatRepo(client)
	h.docs = api.NewDocumentRepo(client)

	creds, err := h.auth.Login(context.Background(), memory.DevEmail, memory.DevPassword)
	if err != nil {
		t.Fatalf("login against stub: %v", err)
	}
	token = creds.Token
	return h
}

func TestLoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.Login(context.Background(), memory.DevEmail, "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestChatRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	page, err := h.chats.List(ctx, repository.ListQuery{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("fixture list: total=%d items=%d", page.Total, len(page.Items))
	}

	created, err := h.chats.Create(ctx, []string{"doc-roadmap"}, "New thread")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	reply, err := h.chats.SendMessage(ctx, created.ID, "What changed?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != "assistant" || reply.Content == "" {
		t.Fatalf("reply = %+v", reply)
	}

	msgs, err := h.chats.Messages(ctx, created.ID)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("timeline = %+v", msgs)
	}

	renamed, err := h.chats.Rename(ctx, created.ID, "Renamed")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Title != "Renamed" || !renamed.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("rename must return the full bumped record: %+v", renamed)
	}

	if err := h.chats.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := h.chats.Get(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted chat still reachable: %v", err)
	}
	// cascade: its messages are gone too
	if _, err := h.chats.Messages(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("messages survived delete: %v", err)
	}
}

func TestListSearchMatchesServerSide(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	page, err := h.chats.List(ctx, repository.ListQuery{Limit: 10, Search: "roadmap"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "chat-roadmap" {
		t.Fatalf("search result = %+v", page.Items)
	}
}

func TestDeleteMissingChat(t *testing.T) {
	h := newHarness(t)
	err := h.chats.Delete(context.Background(), "missing-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUnauthorizedTriggersGlobalHook(t *testing.T) {
	ctx := context.Background()
	fx := memory.NewFixtures(0)
	srv := httptest.NewServer(stub.New(fx, "test-secret", time.Hour, newLogger()).Router())
	t.Cleanup(srv.Close)

	hits := 0
	client, err := api.NewClient(srv.URL, 5*time.Second,
		func() string { return "stale-token" },
		func() { hits++ },
		newLogger(),
	)
	if err != nil {
		t.Fatal(err)
	}
	chats := api.NewChatRepo(client)

	_, err = chats.List(ctx, repository.ListQuery{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hits != 1 {
		t.Fatalf("unauthorized hook fired %d times, want 1", hits)
	}
}

func TestDocumentUploadAndList(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	doc, err := h.docs.Upload(ctx, "notes.md", "text/markdown", strings.NewReader("# heading"), 9)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.Status != "processing" {
		t.Fatalf("fresh upload status = %q", doc.Status)
	}

	got, err := h.docs.Get(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Status.Ready() {
		t.Fatalf("status after processing = %q", got.Status)
	}

	docs, err := h.docs.List(ctx, repository.DocumentQuery{Search: "notes"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Name != "notes.md" {
		t.Fatalf("list = %+v", docs)
	}

	if err := h.docs.Delete(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health = %d", resp.StatusCode)
	}
}
