package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadCookies_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cookies.txt")
	want := []string{"SESSDATA=abc", "bili_jct=def", "DedeUserID=42"}

	if err := SaveCookies(path, want); err != nil {
		t.Fatalf("SaveCookies returned error: %v", err)
	}
	got, err := LoadCookies(path)
	if err != nil {
		t.Fatalf("LoadCookies returned error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cookies, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cookie %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLoadCookies_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte("\n  SESSDATA=abc  \n\n\tbili_jct=def\n\n"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCookies(path)
	if err != nil {
		t.Fatalf("LoadCookies returned error: %v", err)
	}
	if len(got) != 2 || got[0] != "SESSDATA=abc" || got[1] != "bili_jct=def" {
		t.Fatalf("unexpected cookies: %v", got)
	}
}

func TestLoadCookies_EmptyFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(path, []byte("\n\n  \n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := LoadCookies(path)
	if !errors.Is(err, ErrNoCookies) {
		t.Fatalf("expected ErrNoCookies, got %v", err)
	}
}
