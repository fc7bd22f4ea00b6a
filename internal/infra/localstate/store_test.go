package localstate

import (
	"errors"
	"testing"
	"time"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCredentialsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadCredentials(); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("empty store: err = %v, want ErrUnauthorized", err)
	}

	creds := &model.Credentials{
		Token:     "tok-1",
		User:      model.User{ID: "u1", Email: "a@b.com"},
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	if err := s.SaveCredentials(creds); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadCredentials()
	if err != nil {
		t.Fatal(err)
	}
	if got.Token != "tok-1" || got.User.Email != "a@b.com" || !got.ExpiresAt.Equal(creds.ExpiresAt) {
		t.Fatalf("round trip diverged: %+v", got)
	}

	// overwrite, then clear
	creds.Token = "tok-2"
	if err := s.SaveCredentials(creds); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadCredentials()
	if got.Token != "tok-2" {
		t.Fatalf("overwrite failed: %+v", got)
	}
	if err := s.ClearCredentials(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCredentials(); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatal("credentials survived clear")
	}
}

func TestRecentSearchesDedupedMostRecentFirst(t *testing.T) {
	s := openTestStore(t)

	for _, term := range []string{"alpha", "beta", "gamma", "beta", "  ", ""} {
		if err := s.RememberSearch(term); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.RecentSearches(0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"beta", "gamma", "alpha"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRecentSearchesBounded(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < maxRecentSearches+5; i++ {
		if err := s.RememberSearch(string(rune('a' + i))); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.RecentSearches(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != maxRecentSearches {
		t.Fatalf("len = %d, want %d", len(got), maxRecentSearches)
	}
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Preference("theme", "dark")
	if err != nil || got != "dark" {
		t.Fatalf("unset preference: %q %v", got, err)
	}
	if err := s.SetPreference("theme", "light"); err != nil {
		t.Fatal(err)
	}
	got, err = s.Preference("theme", "dark")
	if err != nil || got != "light" {
		t.Fatalf("set preference: %q %v", got, err)
	}
}
