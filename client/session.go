package client

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/saudapakka/saudapakka-mandate"
)

// SessionStorage persists the bearer token between runs.
type SessionStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStorage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStorage) Clear() error {
	return s.Save("")
}

// FileStorage keeps the token in a JSON file readable only by the owner.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

type storedSession struct {
	Token string `json:"token"`
}

func (s *FileStorage) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", pkgerrors.Wrap(err, "read session file")
	}
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return "", pkgerrors.Wrap(err, "decode session file")
	}
	return stored.Token, nil
}

func (s *FileStorage) Save(token string) error {
	raw, err := json.Marshal(storedSession{Token: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return pkgerrors.Wrap(err, "create session dir")
	}
	return pkgerrors.Wrap(os.WriteFile(s.path, raw, 0o600), "write session file")
}

func (s *FileStorage) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return pkgerrors.Wrap(err, "remove session file")
	}
	return nil
}

// SessionContext holds the authenticated user for the lifetime of a client process.
// It implements TokenSource so a Client can be bound to it.
type SessionContext struct {
	api     *Client
	storage SessionStorage

	mu      sync.RWMutex
	token   string
	user    *saudapakka.User
	loading bool
}

func NewSessionContext(api *Client, storage SessionStorage) *SessionContext {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &SessionContext{api: api, storage: storage}
}

// Init restores a stored token and resolves its user. A rejected token is discarded,
// any other failure keeps it for a later Refresh.
func (s *SessionContext) Init(ctx context.Context) error {
	token, err := s.storage.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh re-resolves the current user from the server.
func (s *SessionContext) Refresh(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	if token == "" {
		return nil
	}

	user, err := s.api.MeWithToken(ctx, token)
	if err != nil {
		var aerr *AuthExpiredError
		if errors.As(err, &aerr) {
			slog.InfoContext(ctx, "stored session rejected",
				slog.String("module", "session"),
			)
			return s.Clear()
		}
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

func (s *SessionContext) Login(ctx context.Context, email, password string) (saudapakka.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return saudapakka.User{}, err
	}
	if err := s.storage.Save(resp.Token); err != nil {
		return saudapakka.User{}, err
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &resp.User
	s.mu.Unlock()
	return resp.User, nil
}

// Clear forgets the user and the stored token.
func (s *SessionContext) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return s.storage.Clear()
}

func (s *SessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, or false when nobody is signed in.
func (s *SessionContext) User() (saudapakka.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return saudapakka.User{}, false
	}
	return *s.user, true
}

func (s *SessionContext) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
