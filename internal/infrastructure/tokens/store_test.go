package tokens

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeToken(t *testing.T, dir, identity, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, identity), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}
}

func TestListTokens(t *testing.T) {
	dir := t.TempDir()
	writeToken(t, dir, "personal", "token-abc\n")
	writeToken(t, dir, "business", "  token-xyz  ")

	store := NewStore(dir)
	tokens, err := store.ListTokens()
	if err != nil {
		t.Fatalf("ListTokens() failed: %v", err)
	}

	if len(tokens) != 2 {
		t.Fatalf("ListTokens() returned %d entries, want 2", len(tokens))
	}

	byIdentity := make(map[string]string)
	for _, tok := range tokens {
		byIdentity[tok.Identity] = tok.Token
	}
	if byIdentity["personal"] != "token-abc" {
		t.Errorf("personal token = %q, want %q", byIdentity["personal"], "token-abc")
	}
	if byIdentity["business"] != "token-xyz" {
		t.Errorf("business token = %q, want %q (trimmed)", byIdentity["business"], "token-xyz")
	}
}

func TestListTokens_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeToken(t, dir, "personal", "token-abc")
	if err := os.Mkdir(filepath.Join(dir, "backup"), 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	tokens, err := NewStore(dir).ListTokens()
	if err != nil {
		t.Fatalf("ListTokens() failed: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("ListTokens() returned %d entries, want 1", len(tokens))
	}
}

func TestListTokens_MissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := store.ListTokens()
	if err == nil {
		t.Fatal("ListTokens() expected error for missing directory, got nil")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("ListTokens() error type = %T, want *ConfigError", err)
	}
}

func TestTokenFor(t *testing.T) {
	dir := t.TempDir()
	writeToken(t, dir, "personal", "token-abc\n")

	store := NewStore(dir)

	token, ok, err := store.TokenFor("personal")
	if err != nil {
		t.Fatalf("TokenFor() failed: %v", err)
	}
	if !ok || token != "token-abc" {
		t.Errorf("TokenFor(personal) = (%q, %v), want (token-abc, true)", token, ok)
	}

	_, ok, err = store.TokenFor("unknown")
	if err != nil {
		t.Fatalf("TokenFor() failed: %v", err)
	}
	if ok {
		t.Error("TokenFor(unknown) ok = true, want false")
	}
}

func TestListTokens_ReadsFreshOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	writeToken(t, dir, "personal", "old-token")

	store := NewStore(dir)
	if _, err := store.ListTokens(); err != nil {
		t.Fatalf("ListTokens() failed: %v", err)
	}

	// Rotate the token on disk between calls.
	writeToken(t, dir, "personal", "new-token")

	token, ok, err := store.TokenFor("personal")
	if err != nil || !ok {
		t.Fatalf("TokenFor() = (%q, %v, %v)", token, ok, err)
	}
	if token != "new-token" {
		t.Errorf("TokenFor() after rotation = %q, want %q", token, "new-token")
	}
}
