// Package tokens reads per-identity Starling bearer tokens from the file system.
package tokens

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigError indicates the token directory is missing or unreadable.
type ConfigError struct {
	Dir string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("token directory %s: %v", e.Dir, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IdentityToken pairs an identity label with its bearer token.
type IdentityToken struct {
	Identity string
	Token    string
}

// Store reads bearer tokens from a directory: one file per identity,
// file name is the identity label, file content is the token.
// Tokens are read fresh on every call so external rotation (replacing
// a token file) takes effect without a restart.
type Store struct {
	dir string
}

// NewStore creates a token store backed by the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ListTokens returns one entry per readable token file, with token
// content trimmed of surrounding whitespace. Subdirectories are ignored.
func (s *Store) ListTokens() ([]IdentityToken, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &ConfigError{Dir: s.dir, Err: err}
	}

	tokens := make([]IdentityToken, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, &ConfigError{Dir: s.dir, Err: err}
		}
		tokens = append(tokens, IdentityToken{
			Identity: entry.Name(),
			Token:    strings.TrimSpace(string(data)),
		})
	}

	return tokens, nil
}

// TokenFor returns the token for a single identity within the same
// directory read as ListTokens. ok is false when the identity has no
// token file.
func (s *Store) TokenFor(identity string) (token string, ok bool, err error) {
	tokens, err := s.ListTokens()
	if err != nil {
		return "", false, err
	}
	for _, t := range tokens {
		if t.Identity == identity {
			return t.Token, true, nil
		}
	}
	return "", false, nil
}
