package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	sessionerrors "go-hrm/internal/session/errors"
)

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type Storage interface {
	// Load returns nil, nil when nothing (or only half a session) is stored.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// FileStorage keeps one JSON file per key, <prefix>token.json and
// <prefix>user.json, in dir.
type FileStorage struct {
	dir    string
	prefix string
	mu     sync.Mutex
}

func NewFileStorage(dir, prefix string) *FileStorage {
	return &FileStorage{dir: dir, prefix: prefix}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, f.prefix+key+".json")
}

func (f *FileStorage) Load(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tokenRaw, tokenErr := os.ReadFile(f.path("token"))
	userRaw, userErr := os.ReadFile(f.path("user"))

	tokenMissing := errors.Is(tokenErr, fs.ErrNotExist)
	userMissing := errors.Is(userErr, fs.ErrNotExist)
	if tokenErr != nil && !tokenMissing {
		return nil, fmt.Errorf("session: read token: %w", tokenErr)
	}
	if userErr != nil && !userMissing {
		return nil, fmt.Errorf("session: read user: %w", userErr)
	}

	switch {
	case tokenMissing && userMissing:
		return nil, nil
	case tokenMissing || userMissing:
		return nil, f.clear()
	}

	s, err := decodeSession(tokenRaw, userRaw)
	if err != nil {
		_ = f.clear()
		return nil, err
	}
	if s == nil {
		return nil, f.clear()
	}
	return s, nil
}

func (f *FileStorage) Save(ctx context.Context, s Session) error {
	tokenRaw, userRaw, err := encodeSession(s)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	// user first: a crash in between leaves a half pair, which Load drops
	if err := f.writeFile("user", userRaw); err != nil {
		return err
	}
	return f.writeFile("token", tokenRaw)
}

func (f *FileStorage) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clear()
}

// clear removes every file carrying the app prefix.
func (f *FileStorage) clear() error {
	matches, err := filepath.Glob(filepath.Join(f.dir, f.prefix+"*"))
	if err != nil {
		return err
	}
	var errs []error
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FileStorage) writeFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, f.prefix+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: write %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func encodeSession(s Session) (token, user []byte, err error) {
	if token, err = json.Marshal(s.Token); err != nil {
		return nil, nil, err
	}
	if user, err = json.Marshal(s.User); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// decodeSession returns nil, nil for an empty token.
func decodeSession(tokenRaw, userRaw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(tokenRaw, &s.Token); err != nil {
		return nil, fmt.Errorf("%w: token: %v", sessionerrors.ErrCorrupt, err)
	}
	if err := json.Unmarshal(userRaw, &s.User); err != nil {
		return nil, fmt.Errorf("%w: user: %v", sessionerrors.ErrCorrupt, err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}
