package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/store"
)

func historyFixture() (*fakeChatRepo, *store.ChatStore, *historyUC) {
	repo := newFakeChatRepo()
	st := store.NewChatStore()
	uc := NewHistoryUseCase(repo, st, newLogger())
	return repo, st, uc
}

func seedList(repo *fakeChatRepo, ages map[string]time.Duration) {
	for id, age := range ages {
		repo.seed(&model.ChatSession{
			ID:        id,
			Title:     "Chat " + id,
			CreatedAt: testNow.Add(-age - time.Hour),
			UpdatedAt: testNow.Add(-age),
		})
	}
}

func TestLoadMoreAppends(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	seedList(repo, map[string]time.Duration{
		"a": 1 * time.Hour, "b": 2 * time.Hour, "c": 3 * time.Hour,
	})

	if err := uc.Load(ctx, 2, ""); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := st.Snapshot(); len(got) != 2 {
		t.Fatalf("first page should have 2 items, got %d", len(got))
	}
	if err := uc.LoadMore(ctx); err != nil {
		t.Fatalf("load more: %v", err)
	}
	got := st.Snapshot()
	if len(got) != 3 {
		t.Fatalf("load more should append, got %d items", len(got))
	}
	// nothing further to load: no extra network call
	before := repo.callCount("List")
	if err := uc.LoadMore(ctx); err != nil {
		t.Fatalf("exhausted load more: %v", err)
	}
	if repo.callCount("List") != before {
		t.Fatal("load more past the end must not hit the network")
	}
}

func TestSearchChangeResetsPagination(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	seedList(repo, map[string]time.Duration{"a": time.Hour, "b": 2 * time.Hour})
	repo.seed(&model.ChatSession{ID: "x", Title: "Special", UpdatedAt: testNow.Add(-3 * time.Hour)})

	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}
	if err := uc.Load(ctx, 10, "special"); err != nil {
		t.Fatal(err)
	}
	got := st.Snapshot()
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("search must reset the list, got %+v", got)
	}
	if st.Query().Offset != 0 {
		t.Fatalf("search must reset offset, got %d", st.Query().Offset)
	}
}

func TestPartitionScenario(t *testing.T) {
	ctx := context.Background()
	repo, _, uc := historyFixture()
	seedList(repo, map[string]time.Duration{
		"a": time.Hour,
		"b": 10 * 24 * time.Hour,
	})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}

	recent, older := uc.Partition(testNow)
	if len(recent) != 1 || recent[0].ID != "a" {
		t.Fatalf("recent = %+v, want [a]", recent)
	}
	if len(older) != 1 || older[0].ID != "b" {
		t.Fatalf("older = %+v, want [b]", older)
	}
}

// The two groups must partition the list exactly: disjoint, order-preserving,
// union equal to the input.
func TestPartitionProperty(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	ages := map[string]time.Duration{
		"boundary": 7 * 24 * time.Hour, // inclusive: still recent
		"fresh":    time.Minute,
		"week+":    7*24*time.Hour + time.Second,
		"month":    30 * 24 * time.Hour,
		"day":      24 * time.Hour,
	}
	seedList(repo, ages)
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}

	recent, older := uc.Partition(testNow)
	if len(recent)+len(older) != len(ages) {
		t.Fatalf("partition lost or doubled items: %d + %d != %d", len(recent), len(older), len(ages))
	}
	seen := map[string]int{}
	for _, c := range append(append([]*model.ChatSession{}, recent...), older...) {
		seen[c.ID]++
	}
	for id := range ages {
		if seen[id] != 1 {
			t.Fatalf("chat %q appears %d times across groups", id, seen[id])
		}
	}
	for _, c := range recent {
		if testNow.Sub(c.UpdatedAt) > 7*24*time.Hour {
			t.Fatalf("%q is too old for the recent group", c.ID)
		}
	}
	for _, c := range older {
		if testNow.Sub(c.UpdatedAt) <= 7*24*time.Hour {
			t.Fatalf("%q is too fresh for the older group", c.ID)
		}
	}
	// order inside each group follows the overall sort
	order := map[string]int{}
	for i, c := range st.Snapshot() {
		order[c.ID] = i
	}
	for _, group := range [][]*model.ChatSession{recent, older} {
		for i := 1; i < len(group); i++ {
			if order[group[i-1].ID] > order[group[i].ID] {
				t.Fatalf("group order diverges from list order around %q", group[i].ID)
			}
		}
	}
}

func TestDeleteRemovesFromStore(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	seedList(repo, map[string]time.Duration{"a": time.Hour, "b": 2 * time.Hour})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}

	if err := uc.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, c := range st.Snapshot() {
		if c.ID == "a" {
			t.Fatal("deleted id still in the list")
		}
	}
}

func TestDeleteFailureLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	seedList(repo, map[string]time.Duration{"a": time.Hour})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}

	err := uc.Delete(ctx, "missing-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if got := st.Snapshot(); len(got) != 1 {
		t.Fatalf("failed delete must not touch the list, got %d items", len(got))
	}
}

func TestRenameTrimsTitle(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	repo.seed(&model.ChatSession{ID: "c1", Title: "Old", UpdatedAt: testNow.Add(-time.Hour)})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}

	updated, err := uc.Rename(ctx, "c1", "  My Chat  ")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Title != "My Chat" {
		t.Fatalf("title = %q, want trimmed", updated.Title)
	}
	if repo.callCount("Rename") != 1 {
		t.Fatalf("expected exactly one rename call, got %d", repo.callCount("Rename"))
	}
	if got := st.Get("c1"); got == nil || got.Title != "My Chat" || !got.UpdatedAt.Equal(testNow) {
		t.Fatalf("store must hold the full server record: %+v", got)
	}
}

func TestRenameUnchangedTitleIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, _, uc := historyFixture()
	repo.seed(&model.ChatSession{ID: "c1", Title: "Old", UpdatedAt: testNow.Add(-time.Hour)})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}
	before := repo.networkCalls()

	got, err := uc.Rename(ctx, "c1", "  Old  ")
	if err != nil {
		t.Fatalf("no-op rename: %v", err)
	}
	if got.Title != "Old" {
		t.Fatalf("title = %q", got.Title)
	}
	if repo.networkCalls() != before {
		t.Fatal("no-op rename must issue zero network calls")
	}
}

func TestRenameEmptyTitleInvalid(t *testing.T) {
	ctx := context.Background()
	repo, _, uc := historyFixture()
	repo.seed(&model.ChatSession{ID: "c1", Title: "Old", UpdatedAt: testNow})
	before := repo.networkCalls()

	if _, err := uc.Rename(ctx, "c1", "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if repo.networkCalls() != before {
		t.Fatal("invalid rename must not reach the network")
	}
}

func TestRenameFailureKeepsStore(t *testing.T) {
	ctx := context.Background()
	repo, st, uc := historyFixture()
	repo.seed(&model.ChatSession{ID: "c1", Title: "Old", UpdatedAt: testNow.Add(-time.Hour)})
	if err := uc.Load(ctx, 10, ""); err != nil {
		t.Fatal(err)
	}
	repo.errRename = errors.New("boom")

	if _, err := uc.Rename(ctx, "c1", "New name"); err == nil {
		t.Fatal("expected error")
	}
	if got := st.Get("c1"); got.Title != "Old" {
		t.Fatalf("failed rename must leave the record untouched: %+v", got)
	}
}
